package runner

import (
	"testing"

	"github.com/arasaka-range/ad-check-debug/src/pkg/config"
)

func TestBindDN(t *testing.T) {
	opts := &Options{User: "alice", Domain: "example.com"}
	if got := opts.BindDN(); got != "alice@example.com" {
		t.Errorf("BindDN() = %q, want %q", got, "alice@example.com")
	}
}

func TestLDAPURL(t *testing.T) {
	opts := &Options{Host: "10.0.0.5", Port: 636}
	if got := opts.LDAPURL(); got != "ldap://10.0.0.5:636" {
		t.Errorf("LDAPURL() = %q", got)
	}
}

func TestApplyFilePrecedence(t *testing.T) {
	changedFlags := map[string]bool{"host": true}
	changed := func(name string) bool { return changedFlags[name] }

	opts := &Options{
		Host: "10.10.10.99", // set on the command line
		Port: DefaultPort,
		User: DefaultUser,
	}
	f := &config.File{
		Host: "10.0.0.1",
		Port: 3268,
		User: "svc-debug",
	}
	opts.ApplyFile(f, changed)

	if opts.Host != "10.10.10.99" {
		t.Errorf("explicit flag overridden by file: host = %q", opts.Host)
	}
	if opts.Port != 3268 {
		t.Errorf("file value not applied: port = %d", opts.Port)
	}
	if opts.User != "svc-debug" {
		t.Errorf("file value not applied: user = %q", opts.User)
	}
}

func TestApplyFileZeroValuesIgnored(t *testing.T) {
	opts := &Options{Host: DefaultHost, Port: DefaultPort}
	opts.ApplyFile(&config.File{}, func(string) bool { return false })

	if opts.Host != DefaultHost || opts.Port != DefaultPort {
		t.Errorf("empty file clobbered defaults: %+v", opts)
	}
}
