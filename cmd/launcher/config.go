package main

import (
	"fmt"
	"sort"

	"github.com/urfave/cli/v2"
)

var (
	rpcFlag = cli.StringFlag{
		Name:  "rpcserver",
		Usage: "launcherd gateway url",
		Value: "http://localhost:3000",
	}
	macaroonFlag = cli.StringFlag{
		Name:  "macaroon",
		Usage: "path to the macaroon file",
	}
	tlsCertFlag = cli.StringFlag{
		Name:  "tls_cert_path",
		Usage: "path to the TLS certificate of the daemon",
	}
	nodeURLFlag = cli.StringFlag{
		Name:  "node_url",
		Usage: "ledger RPC node url used by the guest wallet",
		Value: "https://rpc.testnet.near.org",
	}
	tokenIDFlag = cli.StringFlag{
		Name:  "token_id",
		Usage: "the default token contract",
	}
	sponsorFlag = cli.StringFlag{
		Name:  "sponsor_id",
		Usage: "the account holding guest keys, guests.<owner>",
	}
)

var configCmd = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the launcher CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:      "set",
			Usage:     "set a <key> <value> in the local state",
			ArgsUsage: "<key> <value>",
			Action:    configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&rpcFlag,
				&macaroonFlag,
				&tlsCertFlag,
				&nodeURLFlag,
				&tokenIDFlag,
				&sponsorFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Println(key + ": " + state[key])
	}
	return nil
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return &invalidUsageError{ctx, "set"}
	}
	key, value := ctx.Args().Get(0), ctx.Args().Get(1)
	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}
	fmt.Printf("%s %s has been set\n", key, value)
	return nil
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		"rpcserver":     ctx.String("rpcserver"),
		"macaroon":      ctx.String("macaroon"),
		"tls_cert_path": ctx.String("tls_cert_path"),
		"node_url":      ctx.String("node_url"),
		"token_id":      ctx.String("token_id"),
		"sponsor_id":    ctx.String("sponsor_id"),
	})
}
