package provider

import "testing"

func TestLookup(t *testing.T) {
	preset, ok := Lookup("gmail")
	if !ok {
		t.Fatal("Lookup(gmail) not found")
	}
	if preset.IMAP.Host != "imap.gmail.com" || preset.IMAP.Port != 993 || !preset.IMAP.TLS {
		t.Errorf("gmail IMAP = %+v", preset.IMAP)
	}
	if preset.SMTP.Host != "smtp.gmail.com" || preset.SMTP.Port != 587 || preset.SMTP.TLS {
		t.Errorf("gmail SMTP = %+v", preset.SMTP)
	}

	if _, ok := Lookup("nonesuch"); ok {
		t.Error("Lookup(nonesuch) found a preset")
	}
}

func TestPresetIDsAllResolve(t *testing.T) {
	for _, id := range PresetIDs {
		preset, ok := Lookup(id)
		if !ok {
			t.Errorf("PresetIDs entry %q has no preset", id)
			continue
		}
		if preset.ID != id {
			t.Errorf("preset %q carries ID %q", id, preset.ID)
		}
		if preset.IMAP.Port == 0 || preset.SMTP.Port == 0 {
			t.Errorf("preset %q is missing ports", id)
		}
	}
}

func TestDefaultFolder(t *testing.T) {
	tests := []struct {
		provider string
		role     Role
		want     string
	}{
		{"gmail", RoleTrash, "[Gmail]/Trash"},
		{"gmail", RoleArchive, "[Gmail]/All Mail"},
		{"outlook", RoleTrash, "Deleted Items"},
		{"outlook", RoleSpam, "Junk Email"},
		{"yahoo", RoleSpam, "Bulk Mail"},
		{"yahoo", RoleDrafts, "Draft"},
		{"icloud", RoleTrash, "Deleted Messages"},
		{"custom", RoleTrash, ""},
		{"nonesuch", RoleTrash, ""},
	}
	for _, tt := range tests {
		if got := DefaultFolder(tt.provider, tt.role); got != tt.want {
			t.Errorf("DefaultFolder(%q, %q) = %q, want %q", tt.provider, tt.role, got, tt.want)
		}
	}
}

func TestRoleAliasesCoverEveryRole(t *testing.T) {
	for _, role := range Roles {
		if len(RoleAliases[role]) == 0 {
			t.Errorf("role %q has no aliases", role)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		got, ok := ParseRole(string(role))
		if !ok || got != role {
			t.Errorf("ParseRole(%q) = %q, %v", role, got, ok)
		}
	}
	if _, ok := ParseRole("inbox"); ok {
		t.Error("ParseRole(inbox) accepted an unknown role")
	}
}
