package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Session != "default" {
		t.Errorf("Defaults.Session = %q, want %q", cfg.Defaults.Session, "default")
	}
	if cfg.Defaults.Mailbox != "INBOX" {
		t.Errorf("Defaults.Mailbox = %q, want %q", cfg.Defaults.Mailbox, "INBOX")
	}
	if cfg.Defaults.FetchLimit != 50 {
		t.Errorf("Defaults.FetchLimit = %d, want 50", cfg.Defaults.FetchLimit)
	}
	if cfg.Network.InsecureSkipVerify {
		t.Error("Network.InsecureSkipVerify = true by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "defaults:\n  mailbox: Archive\n  fetch_limit: 10\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Mailbox != "Archive" {
		t.Errorf("Defaults.Mailbox = %q, want %q", cfg.Defaults.Mailbox, "Archive")
	}
	if cfg.Defaults.FetchLimit != 10 {
		t.Errorf("Defaults.FetchLimit = %d, want 10", cfg.Defaults.FetchLimit)
	}
	// Keys the file omits keep their defaults.
	if cfg.Defaults.Session != "default" {
		t.Errorf("Defaults.Session = %q, want %q", cfg.Defaults.Session, "default")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	content := "defaults:\n  mailbox: Archive\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MAILTAB_DEFAULTS_MAILBOX", "Sent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Defaults.Mailbox != "Sent" {
		t.Errorf("Defaults.Mailbox = %q, want env override %q", cfg.Defaults.Mailbox, "Sent")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Defaults.FetchLimit = 25
	cfg.Network.InsecureSkipVerify = true

	path, err := Save(cfg)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("saved config missing: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Defaults.FetchLimit != 25 {
		t.Errorf("Defaults.FetchLimit = %d, want 25", loaded.Defaults.FetchLimit)
	}
	if !loaded.Network.InsecureSkipVerify {
		t.Error("Network.InsecureSkipVerify lost in round trip")
	}
}
