// ABOUTME: Deprecation knowledge base mapping (package, method) to known records
// ABOUTME: Load-then-freeze reference data, safe for unsynchronized concurrent reads

package knowledge

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Frosselet/lambda-package-advisor/models"
	"github.com/Frosselet/lambda-package-advisor/triggers"
)

// entry pairs one knowledge-base record with the textual patterns
// whose presence in source counts as a match.
type entry struct {
	Info     models.DeprecationInfo `yaml:"info"`
	Patterns []string               `yaml:"patterns"`
}

// kbSnapshot is when the built-in records were last verified against
// upstream changelogs.
var kbSnapshot = time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)

// defaultEntries covers the deprecated API surfaces most often seen in
// legacy data pipelines.
var defaultEntries = []entry{
	{
		Info: models.DeprecationInfo{
			PackageName:         "pandas",
			MethodName:          "DataFrame.append",
			DeprecatedInVersion: "1.4.0",
			RemovalInVersion:    "2.0.0",
			DeprecationMessage:  "DataFrame.append was removed; build a list and concat once",
			Alternatives:        []string{"pandas.concat"},
			Severity:            models.DeprecationCritical,
			MigrationGuide:      "https://pandas.pydata.org/docs/whatsnew/v2.0.0.html#removal-of-prior-version-deprecations-changes",
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{".append("},
	},
	{
		Info: models.DeprecationInfo{
			PackageName:         "pandas",
			MethodName:          "DataFrame.ix",
			DeprecatedInVersion: "0.20.0",
			RemovalInVersion:    "1.0.0",
			DeprecationMessage:  ".ix indexing was removed; use .loc for labels or .iloc for positions",
			Alternatives:        []string{"DataFrame.loc", "DataFrame.iloc"},
			Severity:            models.DeprecationCritical,
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{".ix["},
	},
	{
		Info: models.DeprecationInfo{
			PackageName:         "pandas",
			MethodName:          "DataFrame.iteritems",
			DeprecatedInVersion: "1.5.0",
			RemovalInVersion:    "2.0.0",
			DeprecationMessage:  "iteritems was removed; use items instead",
			Alternatives:        []string{"DataFrame.items"},
			Severity:            models.DeprecationWarning,
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{".iteritems("},
	},
	{
		Info: models.DeprecationInfo{
			PackageName:         "numpy",
			MethodName:          "np.float",
			DeprecatedInVersion: "1.20.0",
			RemovalInVersion:    "1.24.0",
			DeprecationMessage:  "the np.float alias was removed; use the builtin float or np.float64",
			Alternatives:        []string{"float", "numpy.float64"},
			Severity:            models.DeprecationWarning,
			MigrationGuide:      "https://numpy.org/doc/stable/release/1.24.0-notes.html#expired-deprecations",
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{"np.float(", "np.float)", "np.float,", "dtype=np.float"},
	},
	{
		Info: models.DeprecationInfo{
			PackageName:         "scipy",
			MethodName:          "scipy.misc.imread",
			DeprecatedInVersion: "1.0.0",
			RemovalInVersion:    "1.2.0",
			DeprecationMessage:  "scipy.misc.imread was removed; use imageio.imread",
			Alternatives:        []string{"imageio.imread"},
			Severity:            models.DeprecationCritical,
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{"misc.imread("},
	},
	{
		Info: models.DeprecationInfo{
			PackageName:         "matplotlib",
			MethodName:          "pyplot.hold",
			DeprecatedInVersion: "2.0.0",
			RemovalInVersion:    "3.0.0",
			DeprecationMessage:  "pyplot.hold was removed; axes hold state is always on",
			Alternatives:        []string{},
			Severity:            models.DeprecationNotice,
			LastChecked:         kbSnapshot,
		},
		Patterns: []string{".hold("},
	},
}

// Base is the frozen deprecation knowledge base.
type Base struct {
	entries []entry
}

// NewBase returns a knowledge base over the built-in records.
func NewBase() *Base {
	return &Base{entries: defaultEntries}
}

// NewBaseWithEntries builds a knowledge base from caller-supplied
// records, e.g. a test fixture.
func NewBaseWithEntries(infos []models.DeprecationInfo, patterns map[string][]string) *Base {
	entries := make([]entry, 0, len(infos))
	for _, info := range infos {
		key := info.PackageName + "." + info.MethodName
		entries = append(entries, entry{Info: info, Patterns: patterns[key]})
	}
	return &Base{entries: entries}
}

// LoadBase reads a YAML knowledge file and appends its records to the
// built-in set.
func LoadBase(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read knowledge file at %s: %w", path, err)
	}

	var file struct {
		Entries []entry `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("could not parse knowledge file at %s: %w", path, err)
	}

	for i, e := range file.Entries {
		if e.Info.PackageName == "" || e.Info.MethodName == "" {
			return nil, fmt.Errorf("knowledge entry %d missing package_name or method_name in %s", i, path)
		}
		if len(e.Patterns) == 0 {
			return nil, fmt.Errorf("knowledge entry %s.%s has no patterns in %s", e.Info.PackageName, e.Info.MethodName, path)
		}
	}

	entries := make([]entry, 0, len(defaultEntries)+len(file.Entries))
	entries = append(entries, defaultEntries...)
	entries = append(entries, file.Entries...)
	return &Base{entries: entries}, nil
}

// QuickPatterns exports one (package, method, pattern) triple per
// entry for the trigger evaluator.
func (b *Base) QuickPatterns() []triggers.QuickPattern {
	out := make([]triggers.QuickPattern, 0, len(b.entries))
	for _, e := range b.entries {
		if len(e.Patterns) == 0 {
			continue
		}
		out = append(out, triggers.QuickPattern{
			Package: e.Info.PackageName,
			Method:  e.Info.MethodName,
			Pattern: e.Patterns[0],
		})
	}
	return out
}
