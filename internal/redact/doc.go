// Package redact scrubs secrets from file lines before they are exported.
//
// Detection uses regex heuristics for common secret shapes (API keys, JWTs,
// private key headers, AWS keys, bearer tokens and provider tokens). Files
// whose paths match configured glob patterns are replaced wholesale by a
// single placeholder line instead of being scanned.
package redact
