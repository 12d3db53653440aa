package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/config"
	"github.com/tdex-network/token-launcher/internal/core/application"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/tdex-network/token-launcher/internal/infrastructure/keystore"
	"github.com/tdex-network/token-launcher/internal/infrastructure/ledger"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub"
	"github.com/tdex-network/token-launcher/internal/infrastructure/pubsub/stream"
	httpinterface "github.com/tdex-network/token-launcher/internal/interfaces/http"
	"github.com/tdex-network/token-launcher/pkg/near"
	"github.com/tdex-network/token-launcher/pkg/stats"
)

const statsFile = "stats"

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))

	datadir := config.GetDatadir()
	ownerAccountID := config.GetString(config.OwnerAccountIDKey)

	keys, err := keystore.NewKeystore(
		config.GetCredentialsFile(),
		ownerAccountID,
		config.GetString(config.GuestsAccountSecretKey),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to load keys")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ledgerSvc, err := ledger.NewService(ledger.Config{
		NodeURL:    config.GetString(config.NodeURLKey),
		Gas:        config.GetUint64(config.GasKey),
		Timeout:    config.GetDuration(config.RPCTimeoutKey),
		RateLimit:  config.GetInt(config.RPCRateLimitKey),
		Registerer: registry,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to ledger node")
	}

	var tokenWasm []byte
	if wasmPath := config.GetString(config.TokenWasmPathKey); len(wasmPath) > 0 {
		if tokenWasm, err = os.ReadFile(wasmPath); err != nil {
			log.WithError(err).Fatal("failed to read token wasm")
		}
	}

	webhookPubSub, err := pubsub.NewService(
		filepath.Join(datadir, config.PubSubLocation), nil,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to init webhook store")
	}
	eventsHub := stream.NewHub()

	dbType := application.DBBadger
	if config.GetBool(config.DBInMemoryKey) {
		dbType = application.DBInMemory
	}

	appConfig := &application.Config{
		DBType:             dbType,
		DBConfig:           filepath.Join(datadir, config.DbLocation),
		Ledger:             ledgerSvc,
		Keystore:           keys,
		PubSub:             webhookPubSub,
		Publishers:         []ports.Publisher{eventsHub},
		MinAttachedBalance: mustParseNearAmount(config.MinAttachedBalanceKey),
		GuestKeyAllowance:  mustParseNearAmount(config.GuestKeyAllowanceKey),
		TokenWasm:          tokenWasm,
		FactoryAccountID:   config.GetString(config.FactoryAccountIDKey),
		DefaultTokenID:     config.GetString(config.DefaultTokenIDKey),
		MaxBlockAge:        config.GetUint64(config.AccessKeyMaxBlockAgeKey),
	}
	if err := appConfig.Validate(); err != nil {
		log.WithError(err).Fatal("invalid app config")
	}

	ctx, cancel := context.WithCancel(context.Background())

	recovered, err := appConfig.IntentService().RecoverPending(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to recover pending intents")
	}
	if recovered > 0 {
		log.Warnf(
			"found %d intents left pending by previous run, marked as failed",
			recovered,
		)
	}

	if interval := config.GetInt(config.StatsIntervalKey); interval > 0 {
		stats.EnableMemoryStatistics(
			ctx, time.Duration(interval)*time.Second,
			registry, filepath.Join(datadir, statsFile),
		)
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		NoMacaroons:        config.GetBool(config.NoMacaroonsKey),
		Datadir:            datadir,
		MacaroonsLocation:  config.MacaroonsLocation,
		TLSLocation:        config.TLSLocation,
		EnableTLS:          config.GetBool(config.EnableTLSKey),
		TLSExtraIPs:        config.GetStringSlice(config.TLSExtraIPsKey),
		TLSExtraDomains:    config.GetStringSlice(config.TLSExtraDomainsKey),
		Address:            fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey)),
		CORSAllowedOrigins: config.GetStringSlice(config.CORSAllowedOriginsKey),
		MaxConnections:     config.GetInt(config.MaxConnectionsKey),
		LauncherSvc:        appConfig.LauncherService(),
		GuestSvc:           appConfig.GuestService(),
		IntentSvc:          appConfig.IntentService(),
		PubSubSvc:          appConfig.PubSubService(),
		EventsHub:          eventsHub,
		Registerer:         registry,
		Gatherer:           registry,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to init http interface")
	}

	log.RegisterExitHandler(svc.Stop)
	log.RegisterExitHandler(appConfig.RepoManager().Close)
	log.RegisterExitHandler(appConfig.PubSubService().Close)

	log.Info("starting daemon")
	if err := svc.Start(); err != nil {
		log.WithError(err).Fatal("failed to start daemon")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, os.Interrupt)
	<-sigChan

	log.Info("shutting down daemon")
	cancel()
	svc.Stop()
	appConfig.PubSubService().Close()
	appConfig.RepoManager().Close()

	log.Info("exiting")
}

func mustParseNearAmount(key string) *big.Int {
	amount, err := near.ParseNearAmount(config.GetString(key))
	if err != nil {
		log.WithError(err).Fatalf("invalid %s", key)
	}
	return amount
}
