// Package upgrade decides whether an upgrade from the installed version to
// a target release may proceed. It only ever runs on the upgrade branch:
// the orchestrator chooses fresh-install vs upgrade before invoking it.
package upgrade

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nexcart/nexcart-installer/internal/release"
)

// ValidationResult reports an upgrade decision. CanProceed false implies
// ErrorMessage is set; HasWarnings implies WarningMessage is set.
type ValidationResult struct {
	CanProceed      bool
	ErrorMessage    string
	Message         string
	HasWarnings     bool
	WarningMessage  string
	BreakingChanges []string
}

// Validator applies the upgrade policy.
type Validator struct{}

// Validate compares the installed version against the target release and
// scans the release notes for breaking changes. Downgrades and
// already-current versions are normal negative results, not errors.
func (Validator) Validate(currentVersion string, target *release.Release) ValidationResult {
	targetVersion := target.Version()

	if release.IsValidVersion(currentVersion) && release.IsValidVersion(target.TagName) {
		switch cmp := release.Compare(target.TagName, currentVersion); {
		case cmp == 0:
			return ValidationResult{
				ErrorMessage: fmt.Sprintf("already up to date (v%s)", strings.TrimPrefix(currentVersion, "v")),
			}
		case cmp < 0:
			return ValidationResult{
				ErrorMessage: fmt.Sprintf("cannot downgrade from v%s to v%s",
					strings.TrimPrefix(currentVersion, "v"), targetVersion),
			}
		}
	}

	res := ValidationResult{
		CanProceed: true,
		Message:    fmt.Sprintf("upgrade to v%s can proceed", targetVersion),
	}
	if breaking := parseBreakingChanges(target.Body); len(breaking) > 0 {
		res.HasWarnings = true
		res.BreakingChanges = breaking
		res.WarningMessage = fmt.Sprintf("release v%s contains %d breaking change(s); review before proceeding",
			targetVersion, len(breaking))
	}
	return res
}

var (
	breakingHeading = regexp.MustCompile(`(?i)^#{1,6}\s*breaking\s+changes?\b`)
	anyHeading      = regexp.MustCompile(`^#{1,6}\s`)
)

// parseBreakingChanges extracts breaking-change descriptions from release
// notes. Two forms are recognized: bullet items under a "Breaking Changes"
// markdown heading, and standalone lines prefixed with "BREAKING:".
func parseBreakingChanges(body string) []string {
	var changes []string
	inSection := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case breakingHeading.MatchString(trimmed):
			inSection = true
			continue
		case anyHeading.MatchString(trimmed):
			inSection = false
			continue
		}

		if rest, ok := strings.CutPrefix(trimmed, "BREAKING:"); ok {
			if rest = strings.TrimSpace(rest); rest != "" {
				changes = append(changes, rest)
			}
			continue
		}
		if inSection {
			if rest, ok := cutBullet(trimmed); ok && rest != "" {
				changes = append(changes, rest)
			}
		}
	}
	return changes
}

func cutBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return "", false
}
