package config

import (
	"fmt"
	"path/filepath"

	"github.com/kilianp07/pmsched/auth"
	"github.com/kilianp07/pmsched/core/network"
	"github.com/kilianp07/pmsched/infra/source"
)

// ProjectConfig locates the project data: a YAML project file, a pair of
// CSV tables or a YAML document served over HTTP.
type ProjectConfig struct {
	Name               string    `json:"name"`
	File               string    `json:"file"`
	Activities         string    `json:"activities"`
	Dependencies       string    `json:"dependencies"`
	URL                string    `json:"url"`
	Auth               auth.Conf `json:"auth"`
	NoPredecessorToken string    `json:"no_predecessor_token"`
}

// SetDefaults applies the "-" sentinel.
func (c *ProjectConfig) SetDefaults() {
	if c.NoPredecessorToken == "" {
		c.NoPredecessorToken = network.NoPredecessors
	}
}

// ResolvePaths makes relative paths relative to base.
func (c *ProjectConfig) ResolvePaths(base string) {
	for _, p := range []*string{&c.File, &c.Activities, &c.Dependencies} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate requires exactly one input form.
func (c ProjectConfig) Validate() error {
	tables := c.Activities != "" || c.Dependencies != ""
	forms := 0
	for _, set := range []bool{c.File != "", tables, c.URL != ""} {
		if set {
			forms++
		}
	}
	switch {
	case forms > 1:
		return fmt.Errorf("file, activities/dependencies and url are mutually exclusive")
	case forms == 0:
		return fmt.Errorf("file, url or both activities and dependencies are required")
	case tables && (c.Activities == "" || c.Dependencies == ""):
		return fmt.Errorf("both activities and dependencies are required")
	case c.Auth.Enabled() && c.URL == "":
		return fmt.Errorf("auth requires url")
	}
	return nil
}

// Files converts the section to loader input.
func (c ProjectConfig) Files() source.Files {
	return source.Files{
		File:         c.File,
		Activities:   c.Activities,
		Dependencies: c.Dependencies,
		Sentinel:     c.NoPredecessorToken,
	}
}
