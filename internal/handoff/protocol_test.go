package handoff

import (
	"reflect"
	"strings"
	"testing"
)

func sampleInstallation() ExistingInstallation {
	return ExistingInstallation{
		Version:      "1.0.8",
		SiteName:     "Main Street Store",
		InstallPath:  "/opt/nexcart",
		DBServer:     "db.internal:5432",
		DBName:       "nexcart_prod",
		Healthy:      true,
		ProductCount: 1240,
		OrderCount:   99871,
		UserCount:    5310,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	orig := sampleInstallation()
	got, err := Decode(orig.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(*got, orig) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, orig)
	}
}

func TestEncodeQuotesValues(t *testing.T) {
	args := sampleInstallation().Encode()
	for i := 0; i < len(args); i += 2 {
		if !strings.HasPrefix(args[i], "--") {
			t.Errorf("token %d = %q, want a flag", i, args[i])
		}
	}
	// Values with spaces survive as single tokens.
	var site string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "--sitename" {
			site = args[i+1]
		}
	}
	if site != `"Main Street Store"` {
		t.Errorf("sitename token = %q", site)
	}
}

func TestDecodeMissingRequiredField(t *testing.T) {
	args := []string{
		"--sitename", "Store",
		"--installpath", "/opt/nexcart",
		"--dbserver", "db:5432",
		// --dbname missing
	}
	_, err := Decode(args)
	if err == nil {
		t.Fatal("expected error for missing --dbname")
	}
	if !strings.Contains(err.Error(), "--dbname") {
		t.Errorf("err = %q, want mention of --dbname", err)
	}
}

func TestDecodeShortFlagsAndCase(t *testing.T) {
	args := []string{
		"-s", "Store",
		"-I", "/opt/nexcart",
		"--DS", "db:5432",
		"-dn", "nexcart",
		"-V", "'2.1.0'",
	}
	inst, err := Decode(args)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.SiteName != "Store" || inst.InstallPath != "/opt/nexcart" {
		t.Errorf("identity fields: %+v", inst)
	}
	if inst.Version != "2.1.0" {
		t.Errorf("Version = %q, want quotes stripped", inst.Version)
	}
}

func TestDecodeDefaults(t *testing.T) {
	args := []string{
		"--sitename", "Store",
		"--installpath", "/opt/nexcart",
		"--dbserver", "db:5432",
		"--dbname", "nexcart",
	}
	inst, err := Decode(args)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if inst.Version != UnknownVersion {
		t.Errorf("Version = %q, want %q", inst.Version, UnknownVersion)
	}
	if !inst.Healthy {
		t.Error("Healthy must default to true")
	}
	if inst.ProductCount != 0 || inst.OrderCount != 0 || inst.UserCount != 0 {
		t.Errorf("counts must default to zero: %+v", inst)
	}
}

func TestDecodeUnknownTokensTolerated(t *testing.T) {
	args := []string{
		"stray",
		"--sitename", "Store",
		"--unknownflag", "whatever",
		"--installpath", "/opt/nexcart",
		"--dbserver", "db:5432",
		"--dbname", "nexcart",
	}
	if _, err := Decode(args); err != nil {
		t.Errorf("unknown tokens must be tolerated: %v", err)
	}
}

func TestDecodeBadNumerics(t *testing.T) {
	base := []string{
		"--sitename", "Store",
		"--installpath", "/opt/nexcart",
		"--dbserver", "db:5432",
		"--dbname", "nexcart",
	}
	for _, bad := range [][]string{
		{"--productcount", "many"},
		{"--ordercount", "-5"},
	} {
		if _, err := Decode(append(append([]string{}, base...), bad...)); err == nil {
			t.Errorf("expected error for %v", bad)
		}
	}
}

func TestDecodeEmptyRequiredValue(t *testing.T) {
	args := []string{
		"--sitename", `""`,
		"--installpath", "/opt/nexcart",
		"--dbserver", "db:5432",
		"--dbname", "nexcart",
	}
	if _, err := Decode(args); err == nil {
		t.Error("empty required value must fail decode")
	}
}
