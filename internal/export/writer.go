// Package export writes privacy-safe error reports to disk. The report is
// already a sanitized projection when it arrives here; this package only
// serializes and persists it.
package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/vietddude/sentinel/internal/core/domain"
	"github.com/vietddude/sentinel/internal/telemetry"
)

// FileWriter writes reports as JSON files into a target directory. The
// filesystem is injected so tests run against an in-memory FS.
type FileWriter struct {
	fs  afero.Fs
	dir string
}

// NewFileWriter creates a writer rooted at dir.
func NewFileWriter(fs afero.Fs, dir string) *FileWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileWriter{fs: fs, dir: dir}
}

// Write serializes the report and returns the path it was written to.
func (w *FileWriter) Write(report domain.Report) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("error-report-%s.json", report.Timestamp.UTC().Format("20060102-150405"))
	path := filepath.Join(w.dir, name)

	if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	telemetry.ReportsExportedTotal.Inc()
	return path, nil
}
