package main

import (
	"net/url"

	"github.com/urfave/cli/v2"
)

var guestCmd = cli.Command{
	Name:  "guest",
	Usage: "onboard and manage guests of a token",
	Subcommands: []*cli.Command{
		{
			Name:   "add",
			Usage:  "register a guest and its key",
			Action: addGuestAction,
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "account", Usage: "guest account id, <name>.<token>", Required: true},
				&cli.StringFlag{Name: "public_key", Usage: "guest ed25519 public key", Required: true},
			},
		},
		{
			Name:   "remove",
			Usage:  "unregister a guest and delete its key",
			Action: guestKeyAction("/remove-guest"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "public_key", Usage: "guest ed25519 public key", Required: true},
			},
		},
		{
			Name:   "get",
			Usage:  "print the guest account registered for a key",
			Action: guestKeyAction("/get-guest"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "public_key", Usage: "guest ed25519 public key", Required: true},
			},
		},
		{
			Name:   "list",
			Usage:  "list cached guests",
			Action: listGuestsAction,
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "status", Usage: "filter by ACTIVE, UPGRADED or REMOVED"},
			},
		},
		{
			Name:   "reconcile",
			Usage:  "reconcile the guest cache with the ledger",
			Action: tokenAction("/guests/reconcile"),
			Flags:  []cli.Flag{&tokenFlag},
		},
	},
}

func addGuestAction(ctx *cli.Context) error {
	return withTokenClient(ctx, func(c *client, token string) error {
		resp, err := c.post("/add-guest", map[string]string{
			"tokenId":    token,
			"account_id": ctx.String("account"),
			"public_key": ctx.String("public_key"),
		})
		if err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	})
}

func guestKeyAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withTokenClient(ctx, func(c *client, token string) error {
			resp, err := c.post(path, map[string]string{
				"tokenId":    token,
				"public_key": ctx.String("public_key"),
			})
			if err != nil {
				return err
			}
			printRespJSON(resp)
			return nil
		})
	}
}

func listGuestsAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}
	c, err := newClient(state)
	if err != nil {
		return err
	}

	query := url.Values{}
	if token, _ := tokenID(ctx, state); len(token) > 0 {
		query.Set("tokenId", token)
	}
	if status := ctx.String("status"); len(status) > 0 {
		query.Set("status", status)
	}
	path := "/guests"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := c.get(path)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
