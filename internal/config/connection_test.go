package config

import (
	"os"
	"strings"
	"testing"
)

func sampleConnection() Connection {
	return Connection{
		Account:  "user@example.com",
		Secret:   "hunter2",
		IMAPHost: "imap.example.com",
		IMAPPort: 993,
		IMAPTLS:  true,
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		Provider: "custom",
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	conn := sampleConnection()

	if err := store.Save("work", conn); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, ok, err := store.Load("work")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !ok {
		t.Fatal("Load() ok = false for a saved session")
	}
	if loaded != conn {
		t.Errorf("Load() = %+v, want %+v", loaded, conn)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStoreAt(t.TempDir())

	_, ok, err := store.Load("ghost")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if ok {
		t.Error("Load() ok = true for a missing session")
	}
}

func TestStoreDelete(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	if err := store.Save("work", sampleConnection()); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete("work"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Load("work"); ok {
		t.Error("session survived Delete()")
	}

	// Deleting a missing session is not an error.
	if err := store.Delete("work"); err != nil {
		t.Errorf("Delete() of missing session error = %v", err)
	}
}

func TestStoreList(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	for _, id := range []string{"work", "home", "spare"} {
		if err := store.Save(id, sampleConnection()); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"home", "spare", "work"}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestStoreListEmpty(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	ids, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("List() = %v, want empty", ids)
	}
}

func TestStoreRejectsBadSessionIDs(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	for _, id := range []string{"", "  ", "../escape", "a/b", ".hidden", "semi;colon"} {
		if err := store.Save(id, sampleConnection()); err == nil {
			t.Errorf("Save(%q) accepted an unsafe session id", id)
		}
	}
}

func TestStoreAcceptsAddressLikeIDs(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	if err := store.Save("user@example.com", sampleConnection()); err != nil {
		t.Errorf("Save() rejected an address-like session id: %v", err)
	}
}

func TestStoreFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreAt(dir)
	if err := store.Save("work", sampleConnection()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dir + "/work.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("record mode = %o, want 600", got)
	}
}

func TestApplyPresetFillsEndpoints(t *testing.T) {
	conn := Connection{Account: "a@gmail.com", Secret: "s", Provider: "gmail"}
	got := conn.ApplyPreset()

	if got.IMAPHost != "imap.gmail.com" || got.IMAPPort != 993 || !got.IMAPTLS {
		t.Errorf("IMAP endpoint = %s:%d tls=%v", got.IMAPHost, got.IMAPPort, got.IMAPTLS)
	}
	if got.SMTPHost != "smtp.gmail.com" || got.SMTPPort != 587 || got.SMTPTLS {
		t.Errorf("SMTP endpoint = %s:%d tls=%v", got.SMTPHost, got.SMTPPort, got.SMTPTLS)
	}
}

func TestApplyPresetKeepsExplicitValues(t *testing.T) {
	conn := Connection{
		Account:  "a@gmail.com",
		Secret:   "s",
		Provider: "gmail",
		IMAPHost: "imap.corp.example.com",
		IMAPPort: 1993,
	}
	got := conn.ApplyPreset()

	if got.IMAPHost != "imap.corp.example.com" || got.IMAPPort != 1993 {
		t.Errorf("explicit IMAP endpoint overwritten: %s:%d", got.IMAPHost, got.IMAPPort)
	}
}

func TestApplyPresetUnknownProvider(t *testing.T) {
	conn := sampleConnection()
	conn.Provider = "nonesuch"
	if got := conn.ApplyPreset(); got != conn {
		t.Errorf("ApplyPreset() = %+v, want unchanged", got)
	}
}

func TestValidate(t *testing.T) {
	if err := sampleConnection().Validate(); err != nil {
		t.Errorf("Validate() error = %v for a complete connection", err)
	}

	tests := []struct {
		name   string
		mutate func(*Connection)
	}{
		{"missing account", func(c *Connection) { c.Account = "" }},
		{"missing secret", func(c *Connection) { c.Secret = "" }},
		{"missing imap host", func(c *Connection) { c.IMAPHost = "" }},
		{"missing smtp host", func(c *Connection) { c.SMTPHost = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := sampleConnection()
			tt.mutate(&conn)
			if err := conn.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestRedact(t *testing.T) {
	redacted := Redact(sampleConnection())
	if redacted.Secret != "****" {
		t.Errorf("Secret = %q, want masked", redacted.Secret)
	}
	if strings.Contains(redacted.Secret, "hunter2") {
		t.Error("secret leaked through Redact")
	}

	empty := Redact(Connection{})
	if empty.Secret != "" {
		t.Errorf("Secret = %q for empty connection, want empty", empty.Secret)
	}
}
