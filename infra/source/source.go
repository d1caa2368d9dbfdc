package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kilianp07/pmsched/core/model"
	"github.com/kilianp07/pmsched/core/network"
)

// ErrNoInput is returned when neither a project file nor tables are configured.
var ErrNoInput = errors.New("no project input configured")

// Project is the raw input of an analysis run.
type Project struct {
	Name         string
	Activities   []model.Activity
	Dependencies []network.Dependency
}

// Files names the inputs to load. File takes precedence over the tables.
type Files struct {
	File         string
	Activities   string
	Dependencies string
	// Sentinel is the "no predecessors" token; empty means "-".
	Sentinel string
}

// ParseError locates a malformed cell.
type ParseError struct {
	Source string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q: %v", e.Source, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load reads the configured inputs from disk.
func Load(f Files) (*Project, error) {
	if f.File != "" {
		fh, err := os.Open(f.File)
		if err != nil {
			return nil, err
		}
		defer func() { _ = fh.Close() }()
		p, err := ReadProjectYAML(fh, f.Sentinel)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.File, err)
		}
		if p.Name == "" {
			p.Name = trimExt(f.File)
		}
		return p, nil
	}
	if f.Activities == "" || f.Dependencies == "" {
		return nil, ErrNoInput
	}

	af, err := os.Open(f.Activities)
	if err != nil {
		return nil, err
	}
	defer func() { _ = af.Close() }()
	acts, err := ReadActivitiesCSV(af)
	if err != nil {
		return nil, withSource(err, f.Activities)
	}

	df, err := os.Open(f.Dependencies)
	if err != nil {
		return nil, err
	}
	defer func() { _ = df.Close() }()
	deps, err := ReadDependenciesCSV(df, f.Sentinel)
	if err != nil {
		return nil, withSource(err, f.Dependencies)
	}
	return &Project{Name: trimExt(f.Activities), Activities: acts, Dependencies: deps}, nil
}

func withSource(err error, path string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = path
		return pe
	}
	return fmt.Errorf("%s: %w", path, err)
}

func trimExt(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
