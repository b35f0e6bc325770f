package redact

import (
	"regexp"

	"github.com/dshills/repodump/internal/filter"
)

const placeholder = "[REDACTED]"

// PathPlaceholder replaces the content of files redacted by path policy.
const PathPlaceholder = placeholder + " (file content redacted by path policy)"

// secretPatterns are matched against one line at a time.
var secretPatterns = []*regexp.Regexp{
	// Generic API keys (long hex/base64 strings after common key patterns)
	regexp.MustCompile(`(?i)(api[_-]?key|apikey|api[_-]?secret)\s*[:=]\s*["']?([A-Za-z0-9/+=_-]{20,})["']?`),
	// AWS access key IDs
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	// AWS secret access keys
	regexp.MustCompile(`(?i)(aws[_-]?secret[_-]?access[_-]?key)\s*[:=]\s*["']?([A-Za-z0-9/+=]{40})["']?`),
	// Generic secrets/tokens/passwords in assignments
	regexp.MustCompile(`(?i)(secret|token|password|passwd|credential)\s*[:=]\s*["']([^"']{8,})["']`),
	// Bearer tokens
	regexp.MustCompile(`(?i)Bearer\s+[A-Za-z0-9._-]{20,}`),
	// JWTs (three base64 segments separated by dots)
	regexp.MustCompile(`eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`),
	// Private key blocks
	regexp.MustCompile(`-----BEGIN\s+(RSA\s+)?PRIVATE KEY-----`),
	// GitHub tokens
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9_]{36,}`),
	// Slack tokens
	regexp.MustCompile(`xox[bporas]-[A-Za-z0-9-]{10,}`),
	// Anthropic API keys
	regexp.MustCompile(`sk-ant-[A-Za-z0-9_-]{20,}`),
	// OpenAI API keys
	regexp.MustCompile(`sk-[A-Za-z0-9]{20,}`),
	// Generic long hex strings that look like secrets (32+ chars in an assignment)
	regexp.MustCompile(`(?i)(key|secret|token)\s*[:=]\s*["']?[0-9a-f]{32,}["']?`),
}

// Secrets replaces detected secrets in a single line with [REDACTED].
func Secrets(line string) string {
	for _, pat := range secretPatterns {
		line = pat.ReplaceAllLiteralString(line, placeholder)
	}
	return line
}

// ShouldRedactPath reports whether path matches any redaction pattern.
func ShouldRedactPath(path string, patterns []string) bool {
	return filter.MatchesAny(path, patterns)
}

// Lines returns the exported form of a file's lines: a single placeholder
// line when the path is covered by redactPaths, otherwise each line with
// secrets scrubbed. The input slice is not modified.
func Lines(path string, lines []string, redactPaths []string) []string {
	if ShouldRedactPath(path, redactPaths) {
		return []string{PathPlaceholder}
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Secrets(line)
	}
	return out
}
