package metadata

import (
	"path"
	"regexp"
	"strings"
)

// Wildcard names with a fixed meaning in path patterns.
const (
	WildcardSample    = "sample"
	WildcardMate      = "mate"
	WildcardPairedEnd = "paired_end"
	WildcardStep      = "step"
	WildcardExtension = "extension"
)

var wildcardRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Pattern is a slash separated path template with {wildcard} placeholders.
// A wildcard matches one or more characters other than '/'; a wildcard used several times must
// capture the same text everywhere.
type Pattern struct {
	raw       string
	re        *regexp.Regexp
	groups    []string
	wildcards []string
}

// CompilePattern parses raw into a Pattern anchored at both ends.
func CompilePattern(raw string) (*Pattern, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, parseErrorf("empty path pattern")
	}
	if strings.Count(raw, "{") != strings.Count(raw, "}") {
		return nil, parseErrorf("unbalanced braces in path pattern %q", raw)
	}

	pat := &Pattern{raw: raw}
	seen := map[string]struct{}{}
	expr := &strings.Builder{}
	expr.WriteString("^")
	last := 0
	for _, loc := range wildcardRe.FindAllStringSubmatchIndex(raw, -1) {
		expr.WriteString(regexp.QuoteMeta(raw[last:loc[0]]))
		name := raw[loc[2]:loc[3]]
		// the sample is greedy so identifiers may contain the separators used around
		// the shorter wildcards that follow it
		if name == WildcardSample {
			expr.WriteString(`([^/]+)`)
		} else {
			expr.WriteString(`([^/]+?)`)
		}
		pat.groups = append(pat.groups, name)
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			pat.wildcards = append(pat.wildcards, name)
		}
		last = loc[1]
	}
	expr.WriteString(regexp.QuoteMeta(raw[last:]))
	expr.WriteString("$")

	if strings.ContainsAny(wildcardRe.ReplaceAllString(raw, ""), "{}") {
		return nil, parseErrorf("invalid wildcard in path pattern %q", raw)
	}

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, parseErrorf("path pattern %q: %s", raw, err)
	}
	pat.re = re

	return pat, nil
}

// String returns the pattern as written.
func (p *Pattern) String() string {
	return p.raw
}

// Wildcards returns the distinct wildcard names in order of first appearance.
func (p *Pattern) Wildcards() []string {
	return append([]string(nil), p.wildcards...)
}

// Has reports whether the pattern uses the wildcard name.
func (p *Pattern) Has(name string) bool {
	for _, w := range p.wildcards {
		if w == name {
			return true
		}
	}

	return false
}

// Match matches a slash separated path and returns the wildcard values.
func (p *Pattern) Match(name string) (map[string]string, bool) {
	sub := p.re.FindStringSubmatch(name)
	if sub == nil {
		return nil, false
	}

	values := make(map[string]string, len(p.wildcards))
	for i, wildcard := range p.groups {
		value := sub[i+1]
		if prev, ok := values[wildcard]; ok && prev != value {
			return nil, false
		}
		values[wildcard] = value
	}

	return values, true
}

// Expand replaces the wildcards found in values by their literal value.
func (p *Pattern) Expand(values map[string]string) (*Pattern, error) {
	raw := wildcardRe.ReplaceAllStringFunc(p.raw, func(w string) string {
		if v, ok := values[w[1:len(w)-1]]; ok {
			return v
		}

		return w
	})

	return CompilePattern(raw)
}

// SplitRoot separates the leading directories without wildcards from the rest of the pattern.
// The root is "." when the first segment already holds a wildcard.
func (p *Pattern) SplitRoot() (string, *Pattern, error) {
	segments := strings.Split(p.raw, "/")
	idx := 0
	for idx < len(segments)-1 && !strings.Contains(segments[idx], "{") {
		idx++
	}

	root := path.Join(segments[:idx]...)
	if strings.HasPrefix(p.raw, "/") {
		root = "/" + root
	}
	if root == "" {
		root = "."
	}

	rel, err := CompilePattern(strings.Join(segments[idx:], "/"))
	if err != nil {
		return "", nil, err
	}

	return root, rel, nil
}
