// Command authserver runs the authentication, heartbeat, and realm-list
// services, or performs one-shot administrative actions against the
// configured account store.
package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/wowauth/authd/internal/accounts"
	"github.com/wowauth/authd/internal/api"
	"github.com/wowauth/authd/internal/config"
	"github.com/wowauth/authd/internal/lifecycle"
	"github.com/wowauth/authd/internal/logging"
	"github.com/wowauth/authd/internal/orchestrator"
	"github.com/wowauth/authd/internal/realms"
	tlspkg "github.com/wowauth/authd/internal/tls"
)

func main() {
	app := &cli.App{
		Name:  "authserver",
		Usage: "authentication server for a WoW 3.3.5-style realm cluster",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "/etc/authd/config.yaml",
				Usage: "path to configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "write a default configuration file",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "api-port", Usage: "enable the admin API on this port"},
					&cli.StringFlag{Name: "admin-username", Usage: "admin API username (required with --api-port)"},
					&cli.StringFlag{Name: "admin-password", Usage: "admin API password (required with --api-port)"},
				},
				Action: runInit,
			},
			{
				Name:  "account",
				Usage: "manage accounts in the configured store",
				Subcommands: []*cli.Command{
					{
						Name:      "create",
						Usage:     "create a new account",
						ArgsUsage: "<username> <password> <email>",
						Action:    runAccountCreate,
					},
				},
			},
			{
				Name:   "run",
				Usage:  "start the auth server (default)",
				Action: runServe,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "authserver:", err)
		os.Exit(1)
	}
}

func runInit(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	cfg := config.Default()

	if apiPort := c.Int("api-port"); apiPort > 0 {
		username, password := c.String("admin-username"), c.String("admin-password")
		if username == "" || password == "" {
			return fmt.Errorf("--admin-username and --admin-password are required with --api-port")
		}

		dir := filepath.Dir(path)
		certPath := filepath.Join(dir, "admin-api.crt")
		keyPath := filepath.Join(dir, "admin-api.key")
		if err := tlspkg.GenerateSelfSignedCert(certPath, keyPath, 365); err != nil {
			return fmt.Errorf("generating admin api certificate: %w", err)
		}

		secret, err := randomHex(32)
		if err != nil {
			return fmt.Errorf("generating jwt secret: %w", err)
		}

		cfg.APIPort = apiPort
		cfg.API = config.APISpec{
			TLSCert:       certPath,
			TLSKey:        keyPath,
			AdminUsername: username,
			AdminPassword: password,
			JWTSecret:     secret,
		}
	}

	return config.Save(path, cfg)
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func runAccountCreate(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return fmt.Errorf("usage: authserver account create <username> <password> <email>")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	store, err := openAccountStore(cfg)
	if err != nil {
		return err
	}

	username, password, email := c.Args().Get(0), c.Args().Get(1), c.Args().Get(2)
	account, err := store.CreateAccount(context.Background(), username, password, email)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	fmt.Printf("created account %q (id=%d)\n", account.Username, account.ID)
	return nil
}

func runServe(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	log := logging.New(parseLevel(cfg.Logging.Level), parseFormat(cfg.Logging.Format))

	accountStore, err := openAccountStore(cfg)
	if err != nil {
		return err
	}
	realmStore := realms.NewMemoryStore()

	log.Info("authserver starting", map[string]any{
		"auth_address":      cfg.AuthAddress(),
		"heartbeat_address": cfg.HeartbeatAddress(),
		"api_enabled":       cfg.APIEnabled(),
	})

	var adminAPI orchestrator.AdminAPI
	if cfg.APIEnabled() {
		server, err := api.New(cfg, accountStore, realmStore, log)
		if err != nil {
			return fmt.Errorf("starting admin api: %w", err)
		}
		adminAPI = server
	}

	orch := orchestrator.New(cfg, accountStore, realmStore, adminAPI, log)

	shutdown := lifecycle.NewShutdownManager()
	ctx := shutdown.Start(context.Background())
	defer shutdown.Stop()

	err = orch.Run(ctx)
	log.Info("authserver stopped", map[string]any{"reason": shutdown.Reason()})
	return err
}

// openAccountStore opens the account store named by cfg.AuthDatabase. Only
// the in-memory reference implementation exists in this repository; a
// SQL-backed store is a capability boundary the core depends on by
// interface only (see internal/accounts.Store).
func openAccountStore(cfg *config.Config) (accounts.Store, error) {
	if cfg.AuthDatabase != "memory" {
		return nil, fmt.Errorf("unsupported auth_database %q: only \"memory\" is built into this binary", cfg.AuthDatabase)
	}
	return accounts.NewMemoryStore(), nil
}

func parseLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func parseFormat(format string) logging.LogFormat {
	if format == "human" {
		return logging.FormatHuman
	}
	return logging.FormatJSON
}
