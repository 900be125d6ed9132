package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// go test -v --run TestLoadFromDefaults
func TestLoadFromDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "environment: dev\n")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	s := cfg.Strategy
	if s.IndexExchange != "NSE" || s.IndexToken != "26009" || s.OptionSymbol != "BANKNIFTY" {
		t.Errorf("unexpected instrument defaults: %+v", s)
	}
	if s.StrikeInterval != 100 || s.Quantity != 1 || s.ChainCount != 5 {
		t.Errorf("unexpected numeric defaults: %+v", s)
	}
	if s.PollInterval != time.Second || s.QuoteSource != QuoteSourceREST {
		t.Errorf("unexpected loop defaults: %+v", s)
	}
	if cfg.Credentials.File != filepath.Join(dir, "cred.yml") {
		t.Errorf("credentials file = %q; want resolved against config dir", cfg.Credentials.File)
	}
	if cfg.Log.Environment != EnvDev {
		t.Errorf("log environment = %q; want inherited %q", cfg.Log.Environment, EnvDev)
	}
}

// go test -v --run TestLoadFromShippedConfig
func TestLoadFromShippedConfig(t *testing.T) {
	cfg, err := LoadFrom(".")
	if err != nil {
		t.Fatalf("LoadFrom(.): %v", err)
	}
	if cfg.Shoonya.REST.Timeout != 10*time.Second || cfg.Postgres.ConnMaxLifetime != time.Hour {
		t.Errorf("durations not decoded: %+v %+v", cfg.Shoonya.REST, cfg.Postgres)
	}
}

// go test -v --run TestLoadFromEnvOverride
func TestLoadFromEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "strategy:\n  poll_interval: 1s\n")
	t.Setenv("STRATEGY_POLL_INTERVAL", "250ms")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Strategy.PollInterval != 250*time.Millisecond {
		t.Errorf("poll interval = %v; want env override 250ms", cfg.Strategy.PollInterval)
	}
}

// go test -v --run TestLoadFromInvalid
func TestLoadFromInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero interval", "strategy:\n  strike_interval: 0\n"},
		{"negative poll", "strategy:\n  poll_interval: -1s\n"},
		{"bad quote source", "strategy:\n  quote_source: carrier-pigeon\n"},
		{"zero quantity", "strategy:\n  quantity: 0\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "config.yaml", c.body)
			if _, err := LoadFrom(dir); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

// go test -v --run TestLoadFromMissingFile
func TestLoadFromMissingFile(t *testing.T) {
	if _, err := LoadFrom(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config.yaml")
	}
}

// go test -v --run TestLoadCredentials
func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cred.yml",
		"user: FA0001\npwd: secret\nfactor2: 123456\nvc: FA0001_U\napikey: key\nimei: abc1234\n")

	creds, err := LoadCredentials(CredentialsConfig{File: path}, EnvDev)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.User != "FA0001" || creds.Factor2 != "123456" || creds.VC != "FA0001_U" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

// go test -v --run TestLoadCredentialsMissingFields
func TestLoadCredentialsMissingFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cred.yml", "user: FA0001\npwd: secret\n")

	_, err := LoadCredentials(CredentialsConfig{File: path}, EnvDev)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"factor2", "vc", "apikey", "imei"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not name missing field %s", err, field)
		}
	}
}

// go test -v --run TestLoadCredentialsNoFile
func TestLoadCredentialsNoFile(t *testing.T) {
	_, err := LoadCredentials(CredentialsConfig{File: filepath.Join(t.TempDir(), "absent.yml")}, EnvDev)
	if err == nil {
		t.Fatal("expected read error")
	}
}

// go test -v --run TestPostgresDSN
func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "pw",
		DBName:   "optionbuyer",
		SSLMode:  "disable",
		TimeZone: "Asia/Kolkata",
	}

	want := "host=localhost port=5432 user=postgres password=pw dbname=optionbuyer sslmode=disable TimeZone=Asia/Kolkata"
	if got := cfg.DSN(EnvDev); got != want {
		t.Errorf("DSN = %q; want %q", got, want)
	}
	if got := cfg.AdminDSN(EnvDev); !strings.Contains(got, "dbname=postgres ") {
		t.Errorf("AdminDSN = %q; want maintenance db", got)
	}
}
