package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var tokenFlag = cli.StringFlag{
	Name:  "token",
	Usage: "token contract id, defaults to token_id of the local state",
}

var tokenCmd = cli.Command{
	Name:  "token",
	Usage: "launch and manage token contracts",
	Subcommands: []*cli.Command{
		{
			Name:   "launch",
			Usage:  "create, deploy and initialize a new token contract",
			Action: launchTokenAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "name", Usage: "the token account segment", Required: true},
				&cli.StringFlag{Name: "symbol", Usage: "the token symbol", Required: true},
				&cli.StringFlag{Name: "supply", Usage: "the initial total supply", Required: true},
				&cli.BoolFlag{Name: "continuous", Usage: "enable continuous token drops"},
			},
		},
		{
			Name:   "list",
			Usage:  "list launched tokens",
			Action: listTokensAction,
		},
		{
			Name:   "transfer",
			Usage:  "send tokens from the owner balance",
			Action: transferTokensAction,
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "receiver", Usage: "the receiver account", Required: true},
				&cli.StringFlag{Name: "amount", Usage: "the amount in base units", Required: true},
				&cli.StringFlag{Name: "memo", Usage: "optional transfer memo"},
			},
		},
		{
			Name:   "mint",
			Usage:  "mint new tokens to the owner",
			Action: amountAction("/mint"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "amount", Usage: "the amount in base units", Required: true},
			},
		},
		{
			Name:   "drop-amount",
			Usage:  "update the amount claimed by guests on each drop",
			Action: amountAction("/update-drop-amount"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "amount", Usage: "the amount in base units", Required: true},
			},
		},
		{
			Name:   "add-key",
			Usage:  "add a full access key to the token account",
			Action: addKeyAction,
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "public_key", Usage: "ed25519 public key", Required: true},
			},
		},
		{
			Name:   "delete-keys",
			Usage:  "delete all access keys of the token account",
			Action: tokenAction("/delete-access-keys"),
			Flags:  []cli.Flag{&tokenFlag},
		},
		{
			Name:   "supply",
			Usage:  "print the total supply of the token",
			Action: tokenAction("/total-supply"),
			Flags:  []cli.Flag{&tokenFlag},
		},
		{
			Name:   "balance",
			Usage:  "print the token balance of an account",
			Action: accountAction("/balance-of"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "account", Usage: "the account id", Required: true},
			},
		},
		{
			Name:   "storage-balance",
			Usage:  "print the storage balance of an account",
			Action: accountAction("/storage-balance-of"),
			Flags: []cli.Flag{
				&tokenFlag,
				&cli.StringFlag{Name: "account", Usage: "the account id", Required: true},
			},
		},
	},
}

func tokenID(ctx *cli.Context, state map[string]string) (string, error) {
	if id := ctx.String("token"); len(id) > 0 {
		return id, nil
	}
	if id := state["token_id"]; len(id) > 0 {
		return id, nil
	}
	return "", fmt.Errorf("missing token, use --token or `config set token_id <id>`")
}

func withTokenClient(
	ctx *cli.Context, fn func(c *client, token string) error,
) error {
	state, err := getState()
	if err != nil {
		return err
	}
	token, err := tokenID(ctx, state)
	if err != nil {
		return err
	}
	c, err := newClient(state)
	if err != nil {
		return err
	}
	return fn(c, token)
}

func launchTokenAction(ctx *cli.Context) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.post("/launch-token", map[string]interface{}{
		"name":        ctx.String("name"),
		"symbol":      ctx.String("symbol"),
		"totalSupply": ctx.String("supply"),
		"continuous":  ctx.Bool("continuous"),
	})
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func listTokensAction(ctx *cli.Context) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.get("/tokens")
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func transferTokensAction(ctx *cli.Context) error {
	return withTokenClient(ctx, func(c *client, token string) error {
		resp, err := c.post("/transfer-tokens", map[string]string{
			"tokenId":     token,
			"receiver_id": ctx.String("receiver"),
			"amount":      ctx.String("amount"),
			"memo":        ctx.String("memo"),
		})
		if err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	})
}

func addKeyAction(ctx *cli.Context) error {
	return withTokenClient(ctx, func(c *client, token string) error {
		resp, err := c.post("/add-key", map[string]string{
			"tokenId":   token,
			"publicKey": ctx.String("public_key"),
		})
		if err != nil {
			return err
		}
		printRespJSON(resp)
		return nil
	})
}

func amountAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withTokenClient(ctx, func(c *client, token string) error {
			resp, err := c.post(path, map[string]string{
				"tokenId": token,
				"amount":  ctx.String("amount"),
			})
			if err != nil {
				return err
			}
			printRespJSON(resp)
			return nil
		})
	}
}

func tokenAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withTokenClient(ctx, func(c *client, token string) error {
			resp, err := c.post(path, map[string]string{"tokenId": token})
			if err != nil {
				return err
			}
			printRespJSON(resp)
			return nil
		})
	}
}

func accountAction(path string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return withTokenClient(ctx, func(c *client, token string) error {
			resp, err := c.post(path, map[string]string{
				"tokenId":   token,
				"accountId": ctx.String("account"),
			})
			if err != nil {
				return err
			}
			printRespJSON(resp)
			return nil
		})
	}
}
