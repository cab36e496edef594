package release

import (
	"strings"

	"golang.org/x/mod/semver"
)

func withV(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// IsNewer returns true if target is a newer version than current.
// Dev/unknown current versions always upgrade; invalid targets never do.
func IsNewer(current, target string) bool {
	current, target = withV(current), withV(target)
	if !semver.IsValid(current) {
		return true
	}
	if !semver.IsValid(target) {
		return false
	}
	return semver.Compare(target, current) > 0
}

// Compare compares two versions semantically, tolerating a missing 'v'
// prefix. The result is -1, 0, or +1 as in semver.Compare.
func Compare(a, b string) int {
	return semver.Compare(withV(a), withV(b))
}

// IsValidVersion reports whether v is a semantic version, with or
// without the 'v' prefix.
func IsValidVersion(v string) bool {
	return semver.IsValid(withV(v))
}
