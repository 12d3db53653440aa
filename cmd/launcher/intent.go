package main

import (
	"net/url"
	"strconv"

	"github.com/urfave/cli/v2"
)

var intentCmd = cli.Command{
	Name:  "intent",
	Usage: "inspect and resolve multi-step operations",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "list intents, most recent first",
			Action: listIntentsAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "status", Usage: "filter by PENDING, COMPLETED, FAILED or RESOLVED"},
				&cli.StringFlag{Name: "target", Usage: "filter by target account"},
				&cli.IntFlag{Name: "page", Usage: "page number"},
				&cli.IntFlag{Name: "size", Usage: "page size"},
			},
		},
		{
			Name:      "resolve",
			Usage:     "mark a failed or pending intent as manually resolved",
			ArgsUsage: "<intent id>",
			Action:    resolveIntentAction,
		},
	},
}

func listIntentsAction(ctx *cli.Context) error {
	c, err := getClient()
	if err != nil {
		return err
	}

	query := url.Values{}
	for _, key := range []string{"status", "target"} {
		if v := ctx.String(key); len(v) > 0 {
			query.Set(key, v)
		}
	}
	for _, key := range []string{"page", "size"} {
		if v := ctx.Int(key); v > 0 {
			query.Set(key, strconv.Itoa(v))
		}
	}
	path := "/intents"
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

func resolveIntentAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "resolve"}
	}
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.post("/intents/resolve", map[string]string{
		"id": ctx.Args().First(),
	})
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
