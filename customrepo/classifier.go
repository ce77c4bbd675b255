// ABOUTME: Custom-repository classification of extracted module names
// ABOUTME: Prefix rules mark modules as internal; metadata comes from a doc endpoint

package customrepo

import (
	"strings"

	"github.com/Frosselet/lambda-package-advisor/config"
)

// Classifier decides whether a module identifier belongs to a
// configured internal repository.
type Classifier struct {
	repos []config.CustomRepo
}

// NewClassifier builds a classifier over the configured repositories.
func NewClassifier(repos []config.CustomRepo) *Classifier {
	return &Classifier{repos: repos}
}

// Classify returns the repository whose naming prefix matches the
// module, or nil when the module is public. Repositories are checked
// in configuration order; the first match wins.
func (c *Classifier) Classify(pkg string) *config.CustomRepo {
	for i := range c.repos {
		prefix := c.repos[i].PackagePrefix
		if prefix != "" && strings.HasPrefix(pkg, prefix) {
			return &c.repos[i]
		}
	}
	return nil
}
