package release

import (
	"regexp"
	"strings"
)

// FindAsset returns the asset whose name equals name, compared
// case-insensitively. Returns false when no asset matches.
func FindAsset(r *Release, name string) (*Asset, bool) {
	for i := range r.Assets {
		if strings.EqualFold(r.Assets[i].Name, name) {
			return &r.Assets[i], true
		}
	}
	return nil, false
}

// FindAssetByPattern returns the first asset matching a shell-style
// wildcard pattern: '*' matches any run of characters, '?' matches exactly
// one. Matching is case-insensitive and anchored to the full asset name.
func FindAssetByPattern(r *Release, pattern string) (*Asset, bool) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, false
	}
	for i := range r.Assets {
		if re.MatchString(r.Assets[i].Name) {
			return &r.Assets[i], true
		}
	}
	return nil, false
}

// compilePattern translates a wildcard pattern into an anchored,
// case-insensitive regexp. Every other regexp metacharacter is escaped
// literally before the two wildcard tokens are substituted.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}
