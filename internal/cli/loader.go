package cli

import (
	"errors"
	"fmt"
	"os"

	"mailtab/internal/config"
	"mailtab/internal/secrets"
	"mailtab/internal/session"
)

const passwordEnv = "MAILTAB_PASSWORD" //nolint:gosec // env var name, not a credential

// sessionEnv is a saved session record with its secret resolved: the
// environment beats the record, the record beats the keyring.
type sessionEnv struct {
	appCfg          config.Config
	store           *config.Store
	sessionID       string
	conn            config.Connection
	recordHasSecret bool
}

func loadSessionEnv(sessionID string) (*sessionEnv, error) {
	appCfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = appCfg.Defaults.Session
	}

	store, err := config.NewStore()
	if err != nil {
		return nil, err
	}

	conn, ok, err := store.Load(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no saved config for session %q; run mailtab auth login", sessionID)
	}

	recordHasSecret := conn.Secret != ""
	if password, set := os.LookupEnv(passwordEnv); set {
		conn.Secret = password
	} else if conn.Secret == "" {
		password, err := secrets.GetPassword(conn.Account)
		if err != nil {
			if !errors.Is(err, secrets.ErrSecretNotFound) {
				return nil, err
			}
		} else {
			conn.Secret = password
		}
	}

	return &sessionEnv{
		appCfg:          appCfg,
		store:           store,
		sessionID:       sessionID,
		conn:            conn,
		recordHasSecret: recordHasSecret,
	}, nil
}

// host bundles what one CLI invocation needs: the loaded session
// environment plus a registry holding one connected session.
type host struct {
	*sessionEnv
	registry *session.Registry
}

func openHost(sessionID string) (*host, error) {
	env, err := loadSessionEnv(sessionID)
	if err != nil {
		return nil, err
	}

	registry := session.NewRegistry(env.store, env.appCfg.Network.InsecureSkipVerify)
	// Never start writing plaintext secrets into a record that was saved
	// without one.
	registry.PersistSecrets = env.recordHasSecret

	if err := registry.Connect(env.sessionID, env.conn); err != nil {
		return nil, err
	}

	return &host{sessionEnv: env, registry: registry}, nil
}

func (h *host) close() {
	h.registry.Disconnect(h.sessionID)
}
