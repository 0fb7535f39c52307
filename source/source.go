// Package source reads entities and cohort rules from files, and writes
// cohort rules back.
//
// Two formats are supported, chosen by file extension: tab-separated text
// (.tsv, .txt) and YAML (.yaml, .yml).
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ezachrisen/cohort"
)

// Format is a file format.
type Format string

const (
	TSV  Format = "tsv"
	YAML Format = "yaml"
)

// FormatOf returns the format implied by the file's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".txt":
		return TSV, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported file extension for %s", path)
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case TSV, YAML:
		return f, nil
	case "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want tsv or yaml)", s)
	}
}

// LoadEntities reads the entities in the file.
func LoadEntities(path string) ([]*cohort.Entity, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []*cohort.Entity
	switch format {
	case YAML:
		out, err = ReadEntitiesYAML(f)
	default:
		out, err = ReadEntitiesTSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

// LoadCohorts reads the cohort rules in the file, in file order.
func LoadCohorts(path string) ([]*cohort.Rule, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []*cohort.Rule
	switch format {
	case YAML:
		out, err = ReadCohortsYAML(f)
	default:
		out, err = ReadCohortsTSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return out, nil
}

// WriteCohorts writes the rules in the format.
func WriteCohorts(w io.Writer, rules []*cohort.Rule, format Format) error {
	switch format {
	case YAML:
		return WriteCohortsYAML(w, rules)
	case TSV:
		return WriteCohortsTSV(w, rules)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// SaveCohorts replaces the file with the rules, in the format implied by
// its extension. The rules are written to a temporary file first, which is
// then renamed.
func SaveCohorts(path string, rules []*cohort.Rule) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cohorts_*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCohorts(tmp, rules, format); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
