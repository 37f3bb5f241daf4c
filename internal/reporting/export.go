package reporting

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/petprogress/perfbench/internal/models"
	"github.com/petprogress/perfbench/internal/tier"
	"golang.org/x/sync/errgroup"
)

// Artifact is one written export file.
type Artifact struct {
	Format Format
	Path   string
}

// Exporter writes a finished suite to a results directory.
type Exporter struct {
	dir        string
	classifier *tier.Classifier
	formats    []Format
}

// NewExporter creates an Exporter. With no formats, DefaultFormats is used.
func NewExporter(dir string, classifier *tier.Classifier, formats ...Format) *Exporter {
	if classifier == nil {
		classifier = tier.NewDefault()
	}
	if len(formats) == 0 {
		formats = DefaultFormats()
	}
	return &Exporter{dir: dir, classifier: classifier, formats: formats}
}

// Formats returns the formats the exporter writes.
func (e *Exporter) Formats() []Format {
	return e.formats
}

// WriteAll writes every configured format concurrently. The suite must not
// change while WriteAll runs. Artifacts are returned in format order.
func (e *Exporter) WriteAll(ctx context.Context, suite *models.Suite) ([]Artifact, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating results directory: %w", err)
	}

	artifacts := make([]Artifact, len(e.formats))
	g, ctx := errgroup.WithContext(ctx)

	for i, f := range e.formats {
		path := filepath.Join(e.dir, FileName(f, suite.Timestamp))
		artifacts[i] = Artifact{Format: f, Path: path}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := e.write(f, path, suite); err != nil {
				return fmt.Errorf("writing %s report: %w", f, err)
			}
			slog.Debug("wrote report", "format", f, "path", path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (e *Exporter) write(f Format, path string, suite *models.Suite) error {
	var buf bytes.Buffer

	switch f {
	case FormatJSON:
		if err := WriteJSON(&buf, suite); err != nil {
			return err
		}
	case FormatCSV:
		if err := WriteCSV(&buf, suite, e.classifier); err != nil {
			return err
		}
	case FormatMarkdown:
		buf.WriteString(RenderMarkdown(suite, e.classifier))
	case FormatHTML:
		html, err := RenderHTML(suite, e.classifier)
		if err != nil {
			return err
		}
		buf.Write(html)
	case FormatJUnit:
		if err := WriteJUnitXML(&buf, suite, e.classifier); err != nil {
			return err
		}
	case FormatPrometheus:
		return WritePrometheusTextfile(path, suite)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
