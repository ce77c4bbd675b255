// ABOUTME: Import extraction from Python source text
// ABOUTME: Structural statement parse with a lexical line-scan fallback

package extractor

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
)

// dottedNamePattern matches an absolute dotted module path.
var dottedNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// identifierPattern matches a single bare identifier (aliases).
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Lexical fallback patterns; tolerant of truncated statements.
var (
	lexImportPattern = regexp.MustCompile(`^\s*import\s+(.+)$`)
	lexFromPattern   = regexp.MustCompile(`^\s*from\s+(\.*[A-Za-z_][A-Za-z0-9_.]*)`)
	lexNamePattern   = regexp.MustCompile(`^(\.*[A-Za-z_][A-Za-z0-9_]*)`)
)

// Extract collects the top-level external module identifiers referenced
// by the given source. It never fails: when the structural parse cannot
// handle the input it deterministically switches to a lexical line scan
// and reports degraded=true. Output is deduplicated, sorted, contains
// no empty entries and no aliases. Filtering by "interesting" packages
// is the caller's responsibility.
func Extract(code string) (imports []string, degraded bool) {
	names, err := parseStructural(code)
	if err != nil {
		slog.Debug("Structural parse failed, using lexical fallback", "error", err)
		return normalize(lexicalScan(code)), true
	}
	return normalize(names), false
}

// normalize reduces raw dotted module paths to unique, sorted top-level
// identifiers. Relative forms (any leading dot) are dropped, not
// trimmed: `.helpers` names a local module, not an external `helpers`.
func normalize(raw []string) []string {
	seen := make(map[string]bool)
	for _, name := range raw {
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		root := name
		if idx := strings.Index(name, "."); idx >= 0 {
			root = name[:idx]
		}
		if root == "" {
			continue
		}
		seen[root] = true
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// parseStructural assembles logical lines and parses every import
// statement against the import grammar. Any structural defect
// (unterminated string, unbalanced parens, malformed statement)
// returns an error so the caller can degrade to the lexical scan.
func parseStructural(code string) ([]string, error) {
	logical, err := assembleLogicalLines(code)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, line := range logical {
		// Compound statements can chain with semicolons.
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			switch {
			case stmt == "import" || stmt == "from":
				return nil, fmt.Errorf("truncated import statement: %q", stmt)
			case strings.HasPrefix(stmt, "import "):
				parsed, err := parseImportStatement(stmt)
				if err != nil {
					return nil, err
				}
				names = append(names, parsed...)
			case strings.HasPrefix(stmt, "from "):
				name, err := parseFromStatement(stmt)
				if err != nil {
					return nil, err
				}
				names = append(names, name)
			}
		}
	}
	return names, nil
}

// parseImportStatement handles `import a.b as x, c.d` forms.
func parseImportStatement(stmt string) ([]string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "import "))
	if rest == "" {
		return nil, fmt.Errorf("import statement with no module: %q", stmt)
	}

	var names []string
	for _, item := range strings.Split(rest, ",") {
		fields := strings.Fields(item)
		switch len(fields) {
		case 0:
			return nil, fmt.Errorf("empty import item in: %q", stmt)
		case 1:
			// plain module path
		case 3:
			if fields[1] != "as" || !identifierPattern.MatchString(fields[2]) {
				return nil, fmt.Errorf("malformed import alias: %q", item)
			}
		default:
			return nil, fmt.Errorf("malformed import item: %q", item)
		}
		if !dottedNamePattern.MatchString(fields[0]) {
			return nil, fmt.Errorf("invalid module path: %q", fields[0])
		}
		names = append(names, fields[0])
	}
	return names, nil
}

// parseFromStatement handles `from a.b import x, y as z` forms.
// Relative forms (`from . import x`, `from .sub import x`) reference
// no external module and yield an empty name.
func parseFromStatement(stmt string) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(stmt, "from "))
	idx := strings.Index(rest, " import")
	if idx < 0 {
		return "", fmt.Errorf("from statement missing import clause: %q", stmt)
	}
	module := strings.TrimSpace(rest[:idx])
	imported := strings.TrimSpace(rest[idx+len(" import"):])
	if imported == "" {
		return "", fmt.Errorf("from statement with no imported names: %q", stmt)
	}

	if module == "" {
		return "", fmt.Errorf("from statement with no module: %q", stmt)
	}
	if strings.HasPrefix(module, ".") {
		// relative import, nothing external referenced
		trimmed := strings.TrimLeft(module, ".")
		if trimmed != "" && !dottedNamePattern.MatchString(trimmed) {
			return "", fmt.Errorf("invalid module path: %q", module)
		}
		return "", nil
	}
	if !dottedNamePattern.MatchString(module) {
		return "", fmt.Errorf("invalid module path: %q", module)
	}
	return module, nil
}

// assembleLogicalLines joins backslash continuations and open
// parenthesized groups into single logical lines, stripping comments
// and string contents along the way. Unbalanced quoting or grouping at
// end of input is a structural error.
func assembleLogicalLines(code string) ([]string, error) {
	var (
		logical    []string
		current    strings.Builder
		parenDepth int
		inTriple   bool
		tripleQ    byte
	)

	lines := strings.Split(code, "\n")
	for _, line := range lines {
		stripped, depthDelta, err := scanLine(line, &inTriple, &tripleQ)
		if err != nil {
			return nil, err
		}
		parenDepth += depthDelta
		if parenDepth < 0 {
			return nil, fmt.Errorf("unbalanced closing bracket: %q", line)
		}

		if strings.HasSuffix(stripped, "\\") {
			current.WriteString(strings.TrimSuffix(stripped, "\\"))
			current.WriteString(" ")
			continue
		}

		current.WriteString(stripped)
		if parenDepth > 0 {
			current.WriteString(" ")
			continue
		}

		logical = append(logical, current.String())
		current.Reset()
	}

	if inTriple {
		return nil, fmt.Errorf("unterminated triple-quoted string")
	}
	if parenDepth > 0 {
		return nil, fmt.Errorf("unbalanced open bracket at end of input")
	}
	if strings.TrimSpace(current.String()) != "" {
		return nil, fmt.Errorf("trailing continuation at end of input")
	}
	return logical, nil
}

// scanLine strips comments and string literals from one physical line
// and reports the bracket-depth change. Parentheses inside strings or
// comments do not count. An unterminated single-line string is a
// structural error.
func scanLine(line string, inTriple *bool, tripleQ *byte) (string, int, error) {
	var out strings.Builder
	depth := 0

	i := 0
	for i < len(line) {
		if *inTriple {
			end := strings.Index(line[i:], strings.Repeat(string(*tripleQ), 3))
			if end < 0 {
				return out.String(), depth, nil
			}
			i += end + 3
			*inTriple = false
			continue
		}

		c := line[i]
		switch {
		case c == '#':
			return out.String(), depth, nil
		case c == '"' || c == '\'':
			if i+2 < len(line) && line[i+1] == c && line[i+2] == c {
				*inTriple = true
				*tripleQ = c
				i += 3
				continue
			}
			closing := findStringEnd(line, i+1, c)
			if closing < 0 {
				return "", 0, fmt.Errorf("unterminated string literal: %q", line)
			}
			i = closing + 1
		case c == '(' || c == '[' || c == '{':
			depth++
			// parenthesized groups read as plain whitespace so that
			// `from x import (a, b)` flattens to one statement
			out.WriteByte(' ')
			i++
		case c == ')' || c == ']' || c == '}':
			depth--
			out.WriteByte(' ')
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), depth, nil
}

// findStringEnd locates the closing quote of a single-line string
// literal, honoring backslash escapes. Returns -1 when unterminated.
func findStringEnd(line string, start int, quote byte) int {
	for i := start; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// lexicalScan recovers module names heuristically from source the
// structural parser rejected. Line-oriented, accepts partial and
// truncated statements.
func lexicalScan(code string) []string {
	var names []string
	for _, line := range strings.Split(code, "\n") {
		if m := lexFromPattern.FindStringSubmatch(line); m != nil {
			names = append(names, m[1])
			continue
		}
		if m := lexImportPattern.FindStringSubmatch(line); m != nil {
			for _, item := range strings.Split(m[1], ",") {
				if n := lexNamePattern.FindStringSubmatch(strings.TrimSpace(item)); n != nil {
					names = append(names, n[1])
				}
			}
		}
	}
	return names
}
