package secrets

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

type fakeKeyring struct {
	items map[string]keyring.Item
}

func newFakeKeyring() *fakeKeyring {
	return &fakeKeyring{items: map[string]keyring.Item{}}
}

func (f *fakeKeyring) Get(key string) (keyring.Item, error) {
	item, ok := f.items[key]
	if !ok {
		return keyring.Item{}, keyring.ErrKeyNotFound
	}
	return item, nil
}

func (f *fakeKeyring) GetMetadata(key string) (keyring.Metadata, error) {
	return keyring.Metadata{}, nil
}

func (f *fakeKeyring) Set(item keyring.Item) error {
	f.items[item.Key] = item
	return nil
}

func (f *fakeKeyring) Remove(key string) error {
	delete(f.items, key)
	return nil
}

func (f *fakeKeyring) Keys() ([]string, error) {
	keys := make([]string, 0, len(f.items))
	for k := range f.items {
		keys = append(keys, k)
	}
	return keys, nil
}

func withFakeKeyring(t *testing.T) *fakeKeyring {
	t.Helper()
	fake := newFakeKeyring()
	orig := openKeyringFunc
	openKeyringFunc = func() (keyring.Keyring, error) {
		return fake, nil
	}
	t.Cleanup(func() { openKeyringFunc = orig })
	return fake
}

func TestPasswordRoundTrip(t *testing.T) {
	withFakeKeyring(t)

	if err := SetPassword("User@Example.com", "hunter2"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}

	// Account lookup is case and whitespace insensitive.
	got, err := GetPassword("  user@example.com ")
	if err != nil {
		t.Fatalf("GetPassword() error = %v", err)
	}
	if got != "hunter2" {
		t.Errorf("GetPassword() = %q, want %q", got, "hunter2")
	}
}

func TestGetPasswordNotFound(t *testing.T) {
	withFakeKeyring(t)

	if _, err := GetPassword("nobody@example.com"); !errors.Is(err, ErrSecretNotFound) {
		t.Errorf("GetPassword() error = %v, want ErrSecretNotFound", err)
	}
}

func TestSetPasswordValidation(t *testing.T) {
	withFakeKeyring(t)

	if err := SetPassword("", "hunter2"); err == nil {
		t.Error("SetPassword() accepted an empty account")
	}
	if err := SetPassword("user@example.com", ""); err == nil {
		t.Error("SetPassword() accepted an empty password")
	}
}

func TestSecretKeyRequired(t *testing.T) {
	withFakeKeyring(t)

	if err := SetSecret("  ", []byte("x")); err == nil {
		t.Error("SetSecret() accepted a blank key")
	}
	if _, err := GetSecret(""); err == nil {
		t.Error("GetSecret() accepted a blank key")
	}
}

func TestAllowedBackends(t *testing.T) {
	tests := []struct {
		backend string
		want    []keyring.BackendType
		wantErr bool
	}{
		{"", nil, false},
		{"auto", nil, false},
		{"keychain", []keyring.BackendType{keyring.KeychainBackend}, false},
		{"file", []keyring.BackendType{keyring.FileBackend}, false},
		{"vault", nil, true},
	}
	for _, tt := range tests {
		got, err := allowedBackends(tt.backend)
		if tt.wantErr {
			if err == nil {
				t.Errorf("allowedBackends(%q) accepted an unknown backend", tt.backend)
			}
			continue
		}
		if err != nil {
			t.Errorf("allowedBackends(%q) error = %v", tt.backend, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("allowedBackends(%q) = %v, want %v", tt.backend, got, tt.want)
		}
	}
}

func TestFileKeyringPasswordFunc(t *testing.T) {
	// Explicit password, even empty, wins over everything.
	prompt := fileKeyringPasswordFuncFrom("secret", true, false)
	if got, err := prompt("enter"); err != nil || got != "secret" {
		t.Errorf("prompt = %q, %v, want fixed password", got, err)
	}

	prompt = fileKeyringPasswordFuncFrom("", true, false)
	if got, err := prompt("enter"); err != nil || got != "" {
		t.Errorf("prompt = %q, %v, want empty fixed password", got, err)
	}

	// No password and no TTY: the prompt must fail with guidance instead
	// of hanging.
	prompt = fileKeyringPasswordFuncFrom("", false, false)
	if _, err := prompt("enter"); err == nil {
		t.Error("prompt succeeded without a password source")
	}
}
