// Package handoff carries an ExistingInstallation snapshot across the
// process boundary between the installer and the upgrade process. The
// channel is an untyped argument list, so the protocol is a tagged-field
// codec with explicit required/optional sets rather than positional
// parsing: the round-trip law (Decode∘Encode == identity) is enforceable
// in isolation.
package handoff

import (
	"fmt"
	"strconv"
	"strings"
)

// ExistingInstallation is the snapshot of a detected installation handed
// to the upgrade process. It is passed by value: the receiving process
// owns its own copy, there is no shared mutable state across the boundary.
type ExistingInstallation struct {
	Version      string
	SiteName     string
	InstallPath  string
	DBServer     string
	DBName       string
	Healthy      bool
	ProductCount int
	OrderCount   int
	UserCount    int
	Issues       []string
}

// UnknownVersion is the documented default when the sender omits --version.
const UnknownVersion = "unknown"

// field maps one struct field onto its flag spellings.
type field struct {
	long     string
	short    string
	required bool
}

var fields = []field{
	{long: "sitename", short: "s", required: true},
	{long: "installpath", short: "i", required: true},
	{long: "dbserver", short: "ds", required: true},
	{long: "dbname", short: "dn", required: true},
	{long: "version", short: "v"},
	{long: "productcount"},
	{long: "ordercount"},
	{long: "usercount"},
}

// Encode emits paired flag/value tokens covering every encodable field.
// Values are quoted; numeric fields use their decimal form. Health and
// detected issues are not part of the wire protocol: a handoff only
// happens after a successful detection, so the receiver assumes healthy.
func (e ExistingInstallation) Encode() []string {
	q := func(s string) string { return `"` + s + `"` }
	return []string{
		"--sitename", q(e.SiteName),
		"--installpath", q(e.InstallPath),
		"--dbserver", q(e.DBServer),
		"--dbname", q(e.DBName),
		"--version", q(e.Version),
		"--productcount", strconv.Itoa(e.ProductCount),
		"--ordercount", strconv.Itoa(e.OrderCount),
		"--usercount", strconv.Itoa(e.UserCount),
	}
}

// Decode parses argument tokens back into a snapshot. Long and short flag
// spellings are accepted, flag matching is case-insensitive, one layer of
// surrounding quotes is stripped from values, and unknown tokens are
// tolerated. A missing required field or malformed numeric value fails the
// whole decode; the receiver must not proceed on partial identity.
func Decode(args []string) (*ExistingInstallation, error) {
	values := map[string]string{}

	for i := 0; i < len(args); i++ {
		name, ok := flagName(args[i])
		if !ok {
			continue // stray value or unknown token
		}
		f, ok := lookupField(name)
		if !ok {
			continue // unknown flag, tolerated
		}
		if i+1 >= len(args) {
			break // trailing flag with no value; treated as absent
		}
		i++
		values[f.long] = unquote(args[i])
	}

	var missing []string
	for _, f := range fields {
		if !f.required {
			continue
		}
		if v, ok := values[f.long]; !ok || v == "" {
			missing = append(missing, "--"+f.long)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	inst := &ExistingInstallation{
		SiteName:    values["sitename"],
		InstallPath: values["installpath"],
		DBServer:    values["dbserver"],
		DBName:      values["dbname"],
		Version:     UnknownVersion,
		Healthy:     true,
	}
	if v, ok := values["version"]; ok && v != "" {
		inst.Version = v
	}
	for name, dst := range map[string]*int{
		"productcount": &inst.ProductCount,
		"ordercount":   &inst.OrderCount,
		"usercount":    &inst.UserCount,
	} {
		v, ok := values[name]
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid value for --%s: %q", name, v)
		}
		*dst = n
	}
	return inst, nil
}

// flagName extracts the lowercase flag name from a token, or reports that
// the token is not a flag.
func flagName(tok string) (string, bool) {
	if !strings.HasPrefix(tok, "-") {
		return "", false
	}
	name := strings.TrimLeft(tok, "-")
	if name == "" {
		return "", false
	}
	return strings.ToLower(name), true
}

func lookupField(name string) (field, bool) {
	for _, f := range fields {
		if name == f.long || (f.short != "" && name == f.short) {
			return f, true
		}
	}
	return field{}, false
}

// unquote strips a single layer of matching surrounding quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
