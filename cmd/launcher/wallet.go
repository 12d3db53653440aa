package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdex-network/token-launcher/pkg/guestwallet"
	"github.com/tdex-network/token-launcher/pkg/near"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

const usernameCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	passwordFlag = cli.StringFlag{
		Name:     "password",
		Usage:    "password used to encrypt the cached guest keys",
		EnvVars:  []string{"LAUNCHER_WALLET_PASSWORD"},
		Required: true,
	}
	accountFlag = cli.StringFlag{
		Name:     "account",
		Usage:    "the guest account id",
		Required: true,
	}
)

var walletCmd = cli.Command{
	Name:  "wallet",
	Usage: "manage guest accounts held locally",
	Flags: []cli.Flag{&passwordFlag, &tokenFlag},
	Subcommands: []*cli.Command{
		{
			Name:   "create",
			Usage:  "onboard a new guest with a fresh key",
			Action: walletCreateAction,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Usage: "guest name, random if omitted"},
			},
		},
		{
			Name:   "list",
			Usage:  "list cached guests reconciled with the ledger",
			Action: walletListAction,
		},
		{
			Name:   "export",
			Usage:  "print the seed phrase of a guest",
			Action: walletExportAction,
			Flags:  []cli.Flag{&accountFlag},
		},
		{
			Name:   "claim",
			Usage:  "claim the token drop as guest",
			Action: walletClaimAction,
			Flags:  []cli.Flag{&accountFlag},
		},
		{
			Name:   "transfer",
			Usage:  "send tokens from the guest balance",
			Action: walletTransferAction,
			Flags: []cli.Flag{
				&accountFlag,
				&cli.StringFlag{Name: "receiver", Usage: "the receiver account", Required: true},
				&cli.StringFlag{Name: "amount", Usage: "the amount in base units", Required: true},
				&cli.StringFlag{Name: "memo", Usage: "optional transfer memo"},
			},
		},
		{
			Name:   "predecessor",
			Usage:  "print the account the token attributes guest calls to",
			Action: walletPredecessorAction,
			Flags:  []cli.Flag{&accountFlag},
		},
		{
			Name:   "upgrade",
			Usage:  "turn a guest into a regular account",
			Action: walletUpgradeAction,
			Flags:  []cli.Flag{&accountFlag},
		},
		{
			Name:   "remove",
			Usage:  "unregister a guest and drop it from the cache",
			Action: walletRemoveAction,
			Flags:  []cli.Flag{&accountFlag},
		},
	},
}

func openWallet(ctx *cli.Context) (*guestwallet.Wallet, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	token, err := tokenID(ctx, state)
	if err != nil {
		return nil, err
	}
	sponsor := state["sponsor_id"]
	if len(sponsor) <= 0 {
		return nil, fmt.Errorf("set sponsor_id with `config set sponsor_id <id>`")
	}
	nodeURL := state["node_url"]
	if len(nodeURL) <= 0 {
		return nil, fmt.Errorf("set node_url with `config set node_url <url>`")
	}

	c, err := newClient(state)
	if err != nil {
		return nil, err
	}
	ledger, err := near.NewClient(nodeURL)
	if err != nil {
		return nil, err
	}

	wallet, err := guestwallet.New(guestwallet.Config{
		Datadir:   filepath.Join(launcherDataDir, "wallet", token),
		Password:  ctx.String("password"),
		TokenID:   token,
		SponsorID: sponsor,
		Ledger:    ledger,
		Gateway:   guestwallet.NewHTTPGateway(c.url, c.macaroon, c.http),
	})
	if err != nil {
		return nil, err
	}
	if _, err := wallet.Load(ctx.Context); err != nil {
		return nil, err
	}
	return wallet, nil
}

func walletCreateAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	username := ctx.String("username")
	if len(username) <= 0 {
		username = randstr.String(10, usernameCharset)
	}

	entry, err := wallet.Create(ctx.Context, username)
	if err != nil {
		return err
	}
	return printJSON(entry)
}

func walletListAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	entries := wallet.List()
	if entries == nil {
		entries = []guestwallet.Entry{}
	}
	return printJSON(entries)
}

func walletExportAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	phrase, err := wallet.SeedPhrase(ctx.String("account"))
	if err != nil {
		return err
	}
	fmt.Println(phrase)
	return nil
}

func walletClaimAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	outcome, err := wallet.ClaimDrop(ctx.Context, ctx.String("account"))
	if err != nil {
		return err
	}
	return printJSON(outcome)
}

func walletTransferAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	outcome, err := wallet.TransferAsGuest(
		ctx.Context, ctx.String("account"), ctx.String("receiver"),
		ctx.String("amount"), ctx.String("memo"),
	)
	if err != nil {
		return err
	}
	return printJSON(outcome)
}

func walletPredecessorAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	predecessor, err := wallet.Predecessor(ctx.Context, ctx.String("account"))
	if err != nil {
		return err
	}
	fmt.Println(predecessor)
	return nil
}

func walletUpgradeAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	outcome, err := wallet.Upgrade(
		ctx.Context, ctx.String("account"), confirmSeedPhrase,
	)
	if err != nil {
		return err
	}
	return printJSON(outcome)
}

func walletRemoveAction(ctx *cli.Context) error {
	wallet, err := openWallet(ctx)
	if err != nil {
		return err
	}
	if err := wallet.Remove(ctx.Context, ctx.String("account")); err != nil {
		return err
	}
	fmt.Println("guest removed")
	return nil
}

// confirmSeedPhrase shows the full access key phrase and waits for the user
// to confirm it was stored.
func confirmSeedPhrase(seedPhrase string) bool {
	fmt.Println("Write down the seed phrase of your new full access key:")
	fmt.Println()
	fmt.Println(seedPhrase)
	fmt.Println()
	fmt.Print("Did you store it safely? [y/N] ")

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func printJSON(v interface{}) error {
	buf, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
