// internal/config/loader_test.go

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const baseYAML = `
http:
  web_addr: "127.0.0.1:8080"
  api_addr: "127.0.0.1:8081"
api:
  base_url: "http://127.0.0.1:8081"
storage:
  driver: disk
  dir: uploads
auth:
  jwt_secret: "0123456789abcdef0123"
  admin_emails: ["kaptan@viyakaptan.com"]
`

func writeRoot(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return root
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("missing")
	}
	return v, nil
}

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	root := writeRoot(t, baseYAML)
	t.Setenv("VIYA_HTTP__WEB_ADDR", "127.0.0.1:9090")

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.HTTP.WebAddr != "127.0.0.1:9090" {
		t.Errorf("env override lost: %q", cfg.HTTP.WebAddr)
	}
	if cfg.Cache.Driver != "memory" || cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Auth.SessionTTL != 14*24*time.Hour {
		t.Errorf("session ttl = %v", cfg.Auth.SessionTTL)
	}
	if Get() != cfg {
		t.Errorf("Get() does not return the last loaded config")
	}
}

func TestLoadRejectsHalfConfiguredPortal(t *testing.T) {
	root := writeRoot(t, baseYAML+"  portal_url: \"https://portal.example\"\n")
	if _, err := LoadFrom(root); err == nil {
		t.Fatal("expected error when app_id is missing")
	}
}

func TestLoadResolvesVaultReferences(t *testing.T) {
	root := writeRoot(t, baseYAML+"database:\n  dsn: \"vault:secret/viya#dsn\"\n")

	prev := NewSecretSource
	t.Cleanup(func() { NewSecretSource = prev })
	NewSecretSource = func(context.Context) (SecretSource, error) {
		return fakeSecrets{"secret/viya#dsn": "viya:pw@tcp(db:3306)/viya"}, nil
	}

	cfg, err := LoadFrom(root)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Database.DSN != "viya:pw@tcp(db:3306)/viya" {
		t.Errorf("dsn = %q", cfg.Database.DSN)
	}
}

func TestParseRef(t *testing.T) {
	cases := []struct {
		in        string
		path, key string
		ok        bool
	}{
		{"vault:secret/viya#dsn", "secret/viya", "dsn", true},
		{"vault:secret/a/b#k", "secret/a/b", "k", true},
		{"vault:secret/viya", "", "", false},
		{"vault:#k", "", "", false},
		{"vault:secret#", "", "", false},
	}
	for _, c := range cases {
		p, k, err := parseRef(c.in)
		if (err == nil) != c.ok || p != c.path || k != c.key {
			t.Errorf("parseRef(%q) = %q, %q, %v", c.in, p, k, err)
		}
	}
}
