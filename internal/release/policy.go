package release

import "fmt"

// SelectionPolicy decides which release to install when the feed lists
// several non-draft, non-prerelease candidates. The observed feeds order
// releases inconsistently, so the rule is explicit and configurable
// rather than baked in.
type SelectionPolicy string

const (
	// PolicyPublishDate picks the most recently published release.
	PolicyPublishDate SelectionPolicy = "publish-date"
	// PolicySemver picks the highest semantic version.
	PolicySemver SelectionPolicy = "semver"
)

// ParsePolicy validates a policy name from a flag value.
func ParsePolicy(s string) (SelectionPolicy, error) {
	switch SelectionPolicy(s) {
	case PolicyPublishDate, PolicySemver:
		return SelectionPolicy(s), nil
	case "":
		return PolicyPublishDate, nil
	}
	return "", fmt.Errorf("invalid selection policy %q (use publish-date|semver)", s)
}

// SelectRelease applies the policy over the raw feed list, skipping drafts
// and prereleases. Returns false when no installable release exists.
func SelectRelease(releases []Release, policy SelectionPolicy) (*Release, bool) {
	var best *Release
	for i := range releases {
		r := &releases[i]
		if r.Draft || r.Prerelease {
			continue
		}
		if best == nil {
			best = r
			continue
		}
		switch policy {
		case PolicySemver:
			if IsValidVersion(r.TagName) && Compare(r.TagName, best.TagName) > 0 {
				best = r
			}
		default: // PolicyPublishDate
			if r.PublishedAt.After(best.PublishedAt) {
				best = r
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}
