// Command authadmin is a thin CLI client for the authserver admin API: it
// logs in, then lists, bans, and unbans accounts and lists, creates, and
// reconfigures realms over GraphQL.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/wowauth/authd/internal/admincli"
	"github.com/wowauth/authd/internal/admincli/session"
	admintls "github.com/wowauth/authd/internal/admincli/tls"
)

var log = logrus.New()

func main() {
	app := &cli.App{
		Name:  "authadmin",
		Usage: "administer accounts and realms on an authserver admin API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "admin API address, host:port", EnvVars: []string{"AUTHADMIN_SERVER"}, Required: true},
			&cli.BoolFlag{Name: "yes", Usage: "accept unknown TLS certificates without prompting"},
		},
		Commands: []*cli.Command{
			loginCommand,
			{
				Name:  "accounts",
				Usage: "manage accounts",
				Subcommands: []*cli.Command{
					accountsListCommand,
					accountsBanCommand,
					accountsUnbanCommand,
				},
			},
			{
				Name:  "realms",
				Usage: "manage realms",
				Subcommands: []*cli.Command{
					realmsListCommand,
					realmsCreateCommand,
					realmsSetFlagsCommand,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// newClient builds an admincli.Client for the --server flag, wired to the
// operator's trust-on-first-use certificate store and, unless
// authenticated is false, the token saved by the last `login`.
func newClient(c *cli.Context, authenticated bool) (*admincli.Client, error) {
	server := c.String("server")

	store, err := admintls.NewCertificateStore()
	if err != nil {
		return nil, fmt.Errorf("opening certificate store: %w", err)
	}

	client := admincli.NewClient(server, store, c.Bool("yes"))
	if !authenticated {
		return client, nil
	}

	sessions, err := session.NewStore()
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	token, err := sessions.Load(server)
	if err != nil {
		return nil, fmt.Errorf("loading session token: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("not logged in to %s: run 'authadmin login' first", server)
	}
	client.SetToken(token)
	return client, nil
}

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "authenticate to the admin API and save a bearer token",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "username", Required: true},
		&cli.StringFlag{Name: "password", Required: true},
	},
	Action: func(c *cli.Context) error {
		client, err := newClient(c, false)
		if err != nil {
			return err
		}

		token, err := client.Login(context.Background(), c.String("username"), c.String("password"))
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		sessions, err := session.NewStore()
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}
		if err := sessions.Save(c.String("server"), token); err != nil {
			return fmt.Errorf("saving session token: %w", err)
		}

		log.Infof("logged in as %s", c.String("username"))
		return nil
	},
}
