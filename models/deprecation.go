// ABOUTME: Deprecation knowledge-base entry and custom-package types
// ABOUTME: Immutable reference data surfaced as read-only findings

package models

import "time"

// DeprecationSeverity grades how urgent a deprecated-API finding is.
type DeprecationSeverity string

const (
	DeprecationCritical DeprecationSeverity = "critical"
	DeprecationWarning  DeprecationSeverity = "warning"
	DeprecationNotice   DeprecationSeverity = "notice"
)

// DeprecationInfo describes one deprecated API surface, its
// replacement and severity. Knowledge-base entries are immutable;
// matches are attached read-only to a run.
type DeprecationInfo struct {
	PackageName         string              `json:"package_name" yaml:"package_name"`
	MethodName          string              `json:"method_name" yaml:"method_name"`
	DeprecatedInVersion string              `json:"deprecated_in_version" yaml:"deprecated_in_version"`
	RemovalInVersion    string              `json:"removal_in_version,omitempty" yaml:"removal_in_version"`
	DeprecationMessage  string              `json:"deprecation_message" yaml:"deprecation_message"`
	Alternatives        []string            `json:"alternatives,omitempty" yaml:"alternatives"`
	Severity            DeprecationSeverity `json:"severity" yaml:"severity"`
	MigrationGuide      string              `json:"migration_guide,omitempty" yaml:"migration_guide"`
	LastChecked         time.Time           `json:"last_checked,omitempty" yaml:"last_checked"`
}

// CustomPackageRecord describes a module matched by a configured
// custom-repository naming rule, with whatever metadata the
// repository's documentation endpoint returned.
type CustomPackageRecord struct {
	Name             string   `json:"name"`
	MatchedRepo      string   `json:"matched_repo"`
	Functions        []string `json:"functions,omitempty"`
	Classes          []string `json:"classes,omitempty"`
	DocumentationURL string   `json:"documentation_url,omitempty"`
}
