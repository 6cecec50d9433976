package strategy

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Records returns the table as CSV records, header first, in the format
// LoadTables reads.
func (t *Table) Records() [][]string {
	records := [][]string{append([]string{"Hand"}, Columns...)}
	for _, row := range t.rows {
		record := []string{row}
		for _, m := range t.cells[row] {
			record = append(record, m.Code())
		}
		records = append(records, record)
	}
	return records
}

// WriteDir writes the three tables into dir as CSV files that LoadTables
// (and the tables_dir setting) can read back. Each file is replaced
// atomically, so a reader never sees a half-written table.
func (ts *Tables) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	files := []struct {
		name  string
		table *Table
	}{
		{HardTotalsFile, ts.Hard},
		{SoftTotalsFile, ts.Soft},
		{SplitsFile, ts.Splits},
	}
	for _, f := range files {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(f.table.Records()); err != nil {
			return fmt.Errorf("failed to encode %s: %w", f.name, err)
		}
		if err := writeFileAtomic(filepath.Join(dir, f.name), buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// writeFileAtomic writes to a temporary file in the same directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	// Same directory keeps the rename on one filesystem
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Ensure temp file is cleaned up on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	tmpFile = nil // Prevent defer cleanup

	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, filename); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
