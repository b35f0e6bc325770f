package filter

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns are the built-in exclusions applied ahead of user patterns.
var DefaultPatterns = []string{"*.lock", "*.log", "**/*.csv", "**/*.mat"}

// PatternError reports a glob pattern that failed to compile.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid ignore pattern %q", e.Pattern)
}

// Matcher classifies repository paths against an ordered pattern list.
type Matcher struct {
	patterns []string
}

// Patterns returns the defaults followed by extra, skipping blank entries.
func Patterns(extra []string) []string {
	out := make([]string, 0, len(DefaultPatterns)+len(extra))
	out = append(out, DefaultPatterns...)
	for _, p := range extra {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// New validates every pattern and returns a Matcher preserving their order.
func New(patterns []string) (*Matcher, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, &PatternError{Pattern: p}
		}
	}
	return &Matcher{patterns: append([]string(nil), patterns...)}, nil
}

// Patterns returns the compiled pattern list in evaluation order.
func (m *Matcher) Patterns() []string {
	return append([]string(nil), m.patterns...)
}

// Classify returns the first pattern matching p. When excluded is false the
// path is admitted and pattern is empty.
func (m *Matcher) Classify(p string) (pattern string, excluded bool) {
	p = path.Clean(strings.TrimPrefix(p, "./"))
	for _, pat := range m.patterns {
		// Patterns were validated in New, so Match cannot fail here.
		if ok, _ := doublestar.Match(pat, p); ok {
			return pat, true
		}
	}
	return "", false
}

// MatchesAny reports whether p matches any of the given patterns. Invalid
// patterns never match.
func MatchesAny(p string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, p); err == nil && ok {
			return true
		}
	}
	return false
}
