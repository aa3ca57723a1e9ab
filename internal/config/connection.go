package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mailtab/internal/provider"
)

// Connection is one account's server settings and credentials. It is
// written once when a session connects and treated as immutable afterwards.
type Connection struct {
	Account  string `yaml:"account"`
	Secret   string `yaml:"secret,omitempty"`
	IMAPHost string `yaml:"imap_host"`
	IMAPPort int    `yaml:"imap_port"`
	IMAPTLS  bool   `yaml:"imap_tls"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	// SMTPTLS selects implicit TLS on connect; otherwise STARTTLS is used.
	SMTPTLS  bool   `yaml:"smtp_tls"`
	Provider string `yaml:"provider,omitempty"`
}

// ApplyPreset fills empty endpoint fields from the provider preset table.
func (c Connection) ApplyPreset() Connection {
	preset, ok := provider.Lookup(c.Provider)
	if !ok {
		return c
	}
	if c.IMAPHost == "" {
		c.IMAPHost = preset.IMAP.Host
		c.IMAPTLS = preset.IMAP.TLS
	}
	if c.IMAPPort == 0 {
		c.IMAPPort = preset.IMAP.Port
	}
	if c.SMTPHost == "" {
		c.SMTPHost = preset.SMTP.Host
		c.SMTPTLS = preset.SMTP.TLS
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = preset.SMTP.Port
	}
	return c
}

func (c Connection) Validate() error {
	if c.Account == "" {
		return fmt.Errorf("account address is required")
	}
	if c.Secret == "" {
		return fmt.Errorf("secret is required")
	}
	if c.IMAPHost == "" {
		return fmt.Errorf("imap host is required")
	}
	if c.SMTPHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	return nil
}

// Redact masks the secret for display.
func Redact(c Connection) Connection {
	if c.Secret != "" {
		c.Secret = "****"
	}
	return c
}

// Store persists one Connection record per session identifier as a YAML
// file. Records are written in plaintext, secret included; there is no
// encryption at rest. That matches the behavior this client was built
// around and is a known security gap, documented rather than papered over
// with ad hoc crypto. Use the keyring overlay in internal/secrets to keep
// the secret out of the record.
type Store struct {
	dir string
}

func NewStore() (*Store, error) {
	dir, err := SessionsDir()
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// NewStoreAt is for tests and hosts that manage their own config root.
func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(sessionID string) (string, error) {
	id := sanitizeSessionID(sessionID)
	if id == "" {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(s.dir, id+".yaml"), nil
}

func (s *Store) Save(sessionID string, conn Connection) error {
	path, err := s.path(sessionID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("ensure sessions dir: %w", err)
	}

	data, err := yaml.Marshal(conn)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save session %s: %w", sessionID, err)
	}

	return nil
}

// Load returns the saved record and whether one exists.
func (s *Store) Load(sessionID string) (Connection, bool, error) {
	path, err := s.path(sessionID)
	if err != nil {
		return Connection{}, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Connection{}, false, nil
		}
		return Connection{}, false, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	var conn Connection
	if err := yaml.Unmarshal(data, &conn); err != nil {
		return Connection{}, false, fmt.Errorf("parse session %s: %w", sessionID, err)
	}

	return conn, true, nil
}

func (s *Store) Delete(sessionID string) error {
	path, err := s.path(sessionID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}

	return nil
}

func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".yaml"))
	}
	sort.Strings(ids)

	return ids, nil
}

// sanitizeSessionID keeps session file names flat: no separators, no dot
// prefixes, nothing that could escape the sessions directory.
func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, ".") {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == '@':
		default:
			return ""
		}
	}
	return id
}
