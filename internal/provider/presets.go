package provider

// Role is a semantic folder category resolved to a concrete mailbox path
// per provider and per account.
type Role string

const (
	RoleTrash   Role = "trash"
	RoleArchive Role = "archive"
	RoleSpam    Role = "spam"
	RoleSent    Role = "sent"
	RoleDrafts  Role = "drafts"
)

// Roles lists every folder role in a stable order.
var Roles = []Role{RoleTrash, RoleArchive, RoleSpam, RoleSent, RoleDrafts}

type Endpoint struct {
	Host string
	Port int
	// TLS means implicit TLS on connect. SMTP endpoints with TLS=false are
	// expected to upgrade via STARTTLS.
	TLS bool
}

type Preset struct {
	ID      string
	Name    string
	IMAP    Endpoint
	SMTP    Endpoint
	Note    string
	Folders map[Role]string
}

// Presets maps provider identifiers to their well-known endpoints and
// folder layouts. Pure data, no I/O.
var Presets = map[string]Preset{
	"gmail": {
		ID:   "gmail",
		Name: "Gmail",
		IMAP: Endpoint{Host: "imap.gmail.com", Port: 993, TLS: true},
		SMTP: Endpoint{Host: "smtp.gmail.com", Port: 587, TLS: false},
		Note: "Requires App Password (enable 2FA first)",
		Folders: map[Role]string{
			RoleTrash:   "[Gmail]/Trash",
			RoleArchive: "[Gmail]/All Mail",
			RoleSpam:    "[Gmail]/Spam",
			RoleSent:    "[Gmail]/Sent Mail",
			RoleDrafts:  "[Gmail]/Drafts",
		},
	},
	"outlook": {
		ID:   "outlook",
		Name: "Outlook/Hotmail",
		IMAP: Endpoint{Host: "outlook.office365.com", Port: 993, TLS: true},
		SMTP: Endpoint{Host: "smtp.office365.com", Port: 587, TLS: false},
		Note: "Use your regular password or App Password",
		Folders: map[Role]string{
			RoleTrash:   "Deleted Items",
			RoleArchive: "Archive",
			RoleSpam:    "Junk Email",
			RoleSent:    "Sent Items",
			RoleDrafts:  "Drafts",
		},
	},
	"yahoo": {
		ID:   "yahoo",
		Name: "Yahoo Mail",
		IMAP: Endpoint{Host: "imap.mail.yahoo.com", Port: 993, TLS: true},
		SMTP: Endpoint{Host: "smtp.mail.yahoo.com", Port: 587, TLS: false},
		Note: "Requires App Password",
		Folders: map[Role]string{
			RoleTrash:   "Trash",
			RoleArchive: "Archive",
			RoleSpam:    "Bulk Mail",
			RoleSent:    "Sent",
			RoleDrafts:  "Draft",
		},
	},
	"icloud": {
		ID:   "icloud",
		Name: "iCloud Mail",
		IMAP: Endpoint{Host: "imap.mail.me.com", Port: 993, TLS: true},
		SMTP: Endpoint{Host: "smtp.mail.me.com", Port: 587, TLS: false},
		Note: "Requires App-Specific Password",
		Folders: map[Role]string{
			RoleTrash:   "Deleted Messages",
			RoleArchive: "Archive",
			RoleSpam:    "Junk",
			RoleSent:    "Sent Messages",
			RoleDrafts:  "Drafts",
		},
	},
	"custom": {
		ID:   "custom",
		Name: "Custom IMAP/SMTP",
		IMAP: Endpoint{Port: 993, TLS: true},
		SMTP: Endpoint{Port: 587, TLS: false},
		Note: "Enter your server details manually",
	},
}

// PresetIDs lists provider identifiers in display order.
var PresetIDs = []string{"gmail", "outlook", "yahoo", "icloud", "custom"}

func Lookup(id string) (Preset, bool) {
	preset, ok := Presets[id]
	return preset, ok
}

// DefaultFolder returns the preset's declared path for a role, or "" when
// the provider declares none. Custom providers declare none at all.
func DefaultFolder(providerID string, role Role) string {
	preset, ok := Presets[providerID]
	if !ok || preset.Folders == nil {
		return ""
	}
	return preset.Folders[role]
}

// RoleAliases maps each role to folder names observed in the wild, in
// preference order. Resolution walks aliases first and the folder list
// second, so an earlier alias always beats a later one regardless of the
// order the server listed its folders in.
var RoleAliases = map[Role][]string{
	RoleTrash: {
		"Trash",
		"Deleted",
		"Deleted Items",
		"Deleted Messages",
		"[Gmail]/Trash",
	},
	RoleArchive: {
		"Archive",
		"Archives",
		"All Mail",
		"[Gmail]/All Mail",
	},
	RoleSpam: {
		"Spam",
		"Junk",
		"Junk Email",
		"Junk E-mail",
		"Bulk Mail",
		"[Gmail]/Spam",
	},
	RoleSent: {
		"Sent",
		"Sent Items",
		"Sent Messages",
		"Sent Mail",
		"[Gmail]/Sent Mail",
	},
	RoleDrafts: {
		"Drafts",
		"Draft",
		"[Gmail]/Drafts",
	},
}

// ParseRole validates a role string coming from the host boundary.
func ParseRole(s string) (Role, bool) {
	for _, role := range Roles {
		if string(role) == s {
			return role, true
		}
	}
	return "", false
}
