package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	raw := []byte(`
host: 10.0.0.1
port: 3268
user: svc-debug
baseDn: DC=corp,DC=example,DC=com
dbDsn: root:toor@tcp(127.0.0.1:3306)/scoring_engine
`)
	f, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Host != "10.0.0.1" || f.Port != 3268 || f.User != "svc-debug" {
		t.Errorf("Parse() = %+v", f)
	}
	if f.BaseDN != "DC=corp,DC=example,DC=com" {
		t.Errorf("baseDn = %q", f.BaseDN)
	}
	if f.DBDSN != "root:toor@tcp(127.0.0.1:3306)/scoring_engine" {
		t.Errorf("dbDsn = %q", f.DBDSN)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("host: [unterminated")); err == nil {
		t.Fatal("Parse() expected error for invalid YAML")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.yaml")
	if err := os.WriteFile(path, []byte("domain: corp.example.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Domain != "corp.example.com" {
		t.Errorf("domain = %q", f.Domain)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
