// Package source loads project data: an activity table and a dependency
// table as CSV, or a single YAML project file carrying both.
package source
