package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	dbbadger "github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/badger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	datadir string
	status  string
	target  string

	app = &cobra.Command{
		Use:   "intentctl",
		Short: "offline inspection of launcherd intents",
		Long: "intentctl opens the launcherd database directly to list and " +
			"resolve intents. The daemon must be stopped since the database " +
			"can be opened by one process at a time.",
		Version:       formatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "list intents, most recent first",
		Args:  cobra.NoArgs,
		RunE:  listAction,
	}
	showCmd = &cobra.Command{
		Use:   "show <id>",
		Short: "print an intent with its steps",
		Args:  cobra.ExactArgs(1),
		RunE:  showAction,
	}
	resolveCmd = &cobra.Command{
		Use:   "resolve <id>",
		Short: "mark a failed or pending intent as manually resolved",
		Args:  cobra.ExactArgs(1),
		RunE:  resolveAction,
	}
)

func init() {
	app.PersistentFlags().StringVar(
		&datadir, "datadir", btcutil.AppDataDir("launcherd", false),
		"the datadir of launcherd",
	)
	listCmd.Flags().StringVar(
		&status, "status", "", "filter by PENDING, COMPLETED, FAILED or RESOLVED",
	)
	listCmd.Flags().StringVar(&target, "target", "", "filter by target account")

	app.AddCommand(listCmd, showCmd, resolveCmd)
}

func main() {
	if err := app.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openRepo() (ports.RepoManager, error) {
	dbDir := filepath.Join(datadir, "db")
	if _, err := os.Stat(dbDir); err != nil {
		return nil, fmt.Errorf("database not found in %s", datadir)
	}
	return dbbadger.NewRepoManager(dbDir, nil)
}

func listAction(cmd *cobra.Command, _ []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	intents, err := listIntents(
		cmd.Context(), repo.IntentRepository(), status, target,
	)
	if err != nil {
		return err
	}
	for _, i := range intents {
		fmt.Println(formatIntent(i))
	}
	return nil
}

func showAction(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	intent, err := repo.IntentRepository().GetIntent(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	buf, err := json.MarshalIndent(intent, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}

func resolveAction(cmd *cobra.Command, args []string) error {
	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := resolveIntent(
		cmd.Context(), repo.IntentRepository(), args[0],
	); err != nil {
		return err
	}
	log.Infof("intent %s resolved", args[0])
	return nil
}

func listIntents(
	ctx context.Context, repo domain.IntentRepository, status, target string,
) ([]domain.Intent, error) {
	if len(target) > 0 {
		intents, err := repo.ListIntentsForTarget(ctx, target)
		if err != nil {
			return nil, err
		}
		if len(status) <= 0 {
			return intents, nil
		}
		filtered := make([]domain.Intent, 0, len(intents))
		for _, i := range intents {
			if strings.EqualFold(string(i.Status), status) {
				filtered = append(filtered, i)
			}
		}
		return filtered, nil
	}
	return repo.ListIntents(
		ctx, domain.IntentStatus(strings.ToUpper(status)), nil,
	)
}

func resolveIntent(
	ctx context.Context, repo domain.IntentRepository, id string,
) error {
	return repo.UpdateIntent(ctx, id, func(i *domain.Intent) (*domain.Intent, error) {
		if err := i.Resolve(); err != nil {
			return nil, err
		}
		return i, nil
	})
}

func formatIntent(i domain.Intent) string {
	line := fmt.Sprintf(
		"%s  %-12s  %-9s  %s  steps %d/%d",
		i.ID, i.Kind, i.Status, i.Target, len(i.CompletedSteps()), len(i.Steps),
	)
	if len(i.Error) > 0 {
		line += "  error: " + i.Error
	}
	return line
}

func formatVersion() string {
	return fmt.Sprintf(
		"Version: %s\nCommit: %s\nDate: %s",
		version, commit, date,
	)
}
