package reporting

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
)

var csvHeader = []string{"Test Name", "Duration (ms)", "Memory (MB)", "CPU (%)", "Success", "Category"}

// WriteCSV writes one row per sample. Success is written as True/False and
// Category is the lowercase tier, or "failed".
func WriteCSV(w io.Writer, suite *models.Suite, classifier *tier.Classifier) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range suite.Results {
		success := "False"
		if s.Success {
			success = "True"
		}
		row := []string{
			s.Name,
			fmt.Sprintf("%.2f", s.DurationMs),
			fmt.Sprintf("%.2f", s.MemoryMB),
			fmt.Sprintf("%.2f", s.CPUPercent),
			success,
			classifier.Label(s),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
