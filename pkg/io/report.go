package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/friendgraph/pkg/analysis"
)

// WriteReportJSON encodes a report as indented JSON and writes it to w.
func WriteReportJSON(w io.Writer, r *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadReportJSON decodes a report previously written by [WriteReportJSON].
func ReadReportJSON(r io.Reader) (*analysis.Report, error) {
	var rep analysis.Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &rep, nil
}

// ExportReportJSON writes a report to a JSON file at path.
// This is a convenience wrapper around [WriteReportJSON] for file-based output.
func ExportReportJSON(path string, r *analysis.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReportJSON(f, r)
}
