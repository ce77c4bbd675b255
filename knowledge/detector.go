// ABOUTME: Deprecated-API detection against the knowledge base
// ABOUTME: Textual pattern presence only; receiver types are not resolved

package knowledge

import (
	"strings"

	"github.com/Frosselet/lambda-package-advisor/models"
)

// Detector matches knowledge-base records against source text.
type Detector struct {
	base *Base
}

// NewDetector builds a detector over the given knowledge base.
func NewDetector(base *Base) *Detector {
	return &Detector{base: base}
}

// Detect returns every knowledge-base record whose package is in the
// candidate list and whose textual pattern occurs in the source. The
// match is purely textual: a user-defined method with the same name
// will match too. That false-positive risk is accepted; findings are
// review prompts, not verdicts.
func (d *Detector) Detect(code string, packages []string) []models.DeprecationInfo {
	candidates := make(map[string]bool, len(packages))
	for _, pkg := range packages {
		candidates[pkg] = true
	}

	var findings []models.DeprecationInfo
	for _, e := range d.base.entries {
		if !candidates[e.Info.PackageName] {
			continue
		}
		for _, pattern := range e.Patterns {
			if strings.Contains(code, pattern) {
				findings = append(findings, e.Info)
				break
			}
		}
	}
	return findings
}
