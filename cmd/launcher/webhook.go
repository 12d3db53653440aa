package main

import (
	"net/url"

	"github.com/urfave/cli/v2"
)

var webhookCmd = cli.Command{
	Name:  "webhook",
	Usage: "manage webhooks notified on intent events",
	Subcommands: []*cli.Command{
		{
			Name:   "add",
			Usage:  "register a webhook",
			Action: addWebhookAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "the event to subscribe, * for any", Required: true},
				&cli.StringFlag{Name: "endpoint", Usage: "the url to notify", Required: true},
				&cli.StringFlag{Name: "secret", Usage: "optional secret to sign notifications"},
			},
		},
		{
			Name:      "remove",
			Usage:     "unregister a webhook",
			ArgsUsage: "<webhook id>",
			Action:    removeWebhookAction,
		},
		{
			Name:   "list",
			Usage:  "list registered webhooks",
			Action: listWebhooksAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "event", Usage: "filter by event"},
			},
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.post("/webhooks", map[string]string{
		"event":    ctx.String("event"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return &invalidUsageError{ctx, "remove"}
	}
	c, err := getClient()
	if err != nil {
		return err
	}
	resp, err := c.delete("/webhooks/" + url.PathEscape(ctx.Args().First()))
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	c, err := getClient()
	if err != nil {
		return err
	}
	path := "/webhooks"
	if event := ctx.String("event"); len(event) > 0 {
		path += "?event=" + url.QueryEscape(event)
	}
	resp, err := c.get(path)
	if err != nil {
		return err
	}
	printRespJSON(resp)
	return nil
}
