package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one benchmark suite.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one probe sample.
type JUnitTestCase struct {
	XMLName    xml.Name        `xml:"testcase"`
	Name       string          `xml:"name,attr"`
	Classname  string          `xml:"classname,attr"`
	Time       float64         `xml:"time,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	Error      *JUnitError     `xml:"error,omitempty"`
}

// JUnitError represents a probe that failed during execution.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a suite to JUnit XML form. Failed probes become
// errors; a poor tier is reported as a property, not a failure.
func ConvertToJUnit(suite *models.Suite, classifier *tier.Classifier) *JUnitTestSuites {
	durationSec := suite.TotalDurationMs / 1000.0

	ts := JUnitTestSuite{
		Name:      suite.Name,
		Tests:     suite.Summary.TotalTests,
		Errors:    suite.Summary.Failed,
		Time:      durationSec,
		Timestamp: suite.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "run_id", Value: suite.RunID},
			{Name: "device", Value: suite.Device},
			{Name: "os_version", Value: suite.OSVersion},
			{Name: "success_rate", Value: fmt.Sprintf("%.1f", suite.Summary.SuccessRate)},
		},
	}

	for _, s := range suite.Results {
		ts.TestCases = append(ts.TestCases, convertSample(suite.Name, s, classifier))
	}

	return &JUnitTestSuites{
		Tests:      suite.Summary.TotalTests,
		Errors:     suite.Summary.Failed,
		Time:       durationSec,
		TestSuites: []JUnitTestSuite{ts},
	}
}

func convertSample(suiteName string, s models.Sample, classifier *tier.Classifier) JUnitTestCase {
	classname := suiteName
	if s.Category != "" {
		classname = suiteName + "." + s.Category
	}

	tc := JUnitTestCase{
		Name:      s.Name,
		Classname: classname,
		Time:      s.DurationMs / 1000.0,
		Properties: []JUnitProperty{
			{Name: "tier", Value: classifier.Label(s)},
		},
	}

	if s.Success {
		tc.Properties = append(tc.Properties,
			JUnitProperty{Name: "memory_mb", Value: fmt.Sprintf("%.2f", s.MemoryMB)},
			JUnitProperty{Name: "cpu_percent", Value: fmt.Sprintf("%.2f", s.CPUPercent)},
		)
	} else {
		tc.Error = &JUnitError{
			Message: s.Error,
			Type:    "ProbeFailure",
		}
	}

	return tc
}

// WriteJUnitXML writes JUnit XML for the suite.
func WriteJUnitXML(w io.Writer, suite *models.Suite, classifier *tier.Classifier) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(suite, classifier), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
