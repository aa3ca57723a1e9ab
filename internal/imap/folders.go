package imap

import (
	"fmt"
	"strings"

	"github.com/emersion/go-imap"

	"mailtab/internal/provider"
)

// ListFolders fetches the server's folder tree and flattens it into
// descriptors keyed by fully qualified path. The result is cached on the
// session for role resolution; the cache is only replaced by another
// ListFolders call, never invalidated automatically.
func (s *Session) ListFolders() ([]FolderDescriptor, error) {
	c, err := s.ready()
	if err != nil {
		return nil, err
	}

	ch := make(chan *imap.MailboxInfo, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.List("", "*", ch)
	}()

	var infos []*imap.MailboxInfo
	for info := range ch {
		if info != nil {
			infos = append(infos, info)
		}
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}

	folders := flattenFolders(infos)

	s.mu.Lock()
	s.folders = folders
	s.mu.Unlock()

	return folders, nil
}

// ResolveRole maps a semantic role to a concrete folder path. The cached
// listing is searched against the role's alias table first: aliases are
// tried in table order, and within one alias any folder whose path or leaf
// name matches case-insensitively wins. Only when no alias matches (or no
// listing is cached) does the provider preset default apply. Servers
// routinely expose localized or custom folder names, so the live listing
// has to outrank provider documentation.
func (s *Session) ResolveRole(role provider.Role) string {
	s.mu.Lock()
	folders := s.folders
	providerID := s.conn.Provider
	s.mu.Unlock()

	return ResolveRole(folders, providerID, role)
}

func ResolveRole(folders []FolderDescriptor, providerID string, role provider.Role) string {
	for _, alias := range provider.RoleAliases[role] {
		for _, folder := range folders {
			if strings.EqualFold(folder.Path, alias) || strings.EqualFold(folder.Name, alias) {
				return folder.Path
			}
		}
	}

	return provider.DefaultFolder(providerID, role)
}

func flattenFolders(infos []*imap.MailboxInfo) []FolderDescriptor {
	folders := make([]FolderDescriptor, 0, len(infos))
	for _, info := range infos {
		leaf := info.Name
		if info.Delimiter != "" {
			if i := strings.LastIndex(info.Name, info.Delimiter); i >= 0 {
				leaf = info.Name[i+len(info.Delimiter):]
			}
		}
		folders = append(folders, FolderDescriptor{
			Name:       leaf,
			Path:       info.Name,
			Delimiter:  info.Delimiter,
			Attributes: append([]string(nil), info.Attributes...),
		})
	}

	for i := range folders {
		folder := &folders[i]
		if folder.Delimiter == "" {
			continue
		}
		prefix := folder.Path + folder.Delimiter
		for _, other := range folders {
			if !strings.HasPrefix(other.Path, prefix) {
				continue
			}
			// Direct children only, not grandchildren.
			if strings.Contains(other.Path[len(prefix):], folder.Delimiter) {
				continue
			}
			folder.Children = append(folder.Children, other.Name)
		}
	}

	return folders
}
