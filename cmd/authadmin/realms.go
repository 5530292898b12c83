package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
)

type realm struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Type            int     `json:"type"`
	Build           int     `json:"build"`
	ExternalAddress string  `json:"externalAddress"`
	LocalAddress    string  `json:"localAddress"`
	LocalSubnet     string  `json:"localSubnet"`
	Port            int     `json:"port"`
	Flags           int     `json:"flags"`
	Population      float64 `json:"population"`
	LastHeartbeatAt *string `json:"lastHeartbeatAt"`
}

const realmFields = `id name type build externalAddress localAddress localSubnet port flags population lastHeartbeatAt`

var realmsListCommand = &cli.Command{
	Name:  "list",
	Usage: "list all realms",
	Action: func(c *cli.Context) error {
		client, err := newClient(c, true)
		if err != nil {
			return err
		}

		var resp struct {
			Realms []realm `json:"realms"`
		}
		query := fmt.Sprintf("query { realms { %s } }", realmFields)
		if err := client.GraphQL(context.Background(), query, nil, &resp); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tADDRESS\tFLAGS\tPOPULATION\tLAST HEARTBEAT")
		for _, r := range resp.Realms {
			heartbeat := "never"
			if r.LastHeartbeatAt != nil {
				heartbeat = *r.LastHeartbeatAt
			}
			fmt.Fprintf(w, "%s\t%s\t%s:%d\t%d\t%.2f\t%s\n", r.ID, r.Name, r.ExternalAddress, r.Port, r.Flags, r.Population, heartbeat)
		}
		return w.Flush()
	},
}

var realmsCreateCommand = &cli.Command{
	Name:  "create",
	Usage: "register a new realm",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "name", Required: true},
		&cli.IntFlag{Name: "type", Required: true, Usage: "realm type (0=normal PvE, 1=PvP, ...)"},
		&cli.IntFlag{Name: "build", Required: true, Usage: "client build number, e.g. 12340"},
		&cli.StringFlag{Name: "external-address", Required: true},
		&cli.StringFlag{Name: "local-address", Required: true},
		&cli.StringFlag{Name: "local-subnet", Required: true},
		&cli.IntFlag{Name: "port", Required: true},
	},
	Action: func(c *cli.Context) error {
		client, err := newClient(c, true)
		if err != nil {
			return err
		}

		variables := map[string]any{
			"name":            c.String("name"),
			"type":            c.Int("type"),
			"build":           c.Int("build"),
			"externalAddress": c.String("external-address"),
			"localAddress":    c.String("local-address"),
			"localSubnet":     c.String("local-subnet"),
			"port":            c.Int("port"),
		}

		var resp struct {
			CreateRealm realm `json:"createRealm"`
		}
		query := fmt.Sprintf(`mutation($name: String!, $type: Int!, $build: Int!, $externalAddress: String!, $localAddress: String!, $localSubnet: String!, $port: Int!) {
			createRealm(name: $name, type: $type, build: $build, externalAddress: $externalAddress, localAddress: $localAddress, localSubnet: $localSubnet, port: $port) { %s }
		}`, realmFields)
		if err := client.GraphQL(context.Background(), query, variables, &resp); err != nil {
			return err
		}

		log.Infof("created realm %q (id=%s)", resp.CreateRealm.Name, resp.CreateRealm.ID)
		return nil
	},
}

var realmsSetFlagsCommand = &cli.Command{
	Name:      "set-flags",
	Usage:     "set a realm's status flags",
	ArgsUsage: "<realm-id> <flags>",
	Action: func(c *cli.Context) error {
		if c.Args().Len() != 2 {
			return fmt.Errorf("usage: authadmin realms set-flags <realm-id> <flags>")
		}

		client, err := newClient(c, true)
		if err != nil {
			return err
		}

		var flags int
		if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &flags); err != nil {
			return fmt.Errorf("invalid flags %q: %w", c.Args().Get(1), err)
		}

		variables := map[string]any{
			"id":    c.Args().Get(0),
			"flags": flags,
		}
		var resp struct {
			SetRealmFlags realm `json:"setRealmFlags"`
		}
		query := fmt.Sprintf(`mutation($id: ID!, $flags: Int!) { setRealmFlags(id: $id, flags: $flags) { %s } }`, realmFields)
		if err := client.GraphQL(context.Background(), query, variables, &resp); err != nil {
			return err
		}

		log.Infof("realm %s flags now %d", resp.SetRealmFlags.Name, resp.SetRealmFlags.Flags)
		return nil
	},
}
