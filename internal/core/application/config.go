package application

import (
	"fmt"
	"math/big"

	"github.com/dgraph-io/badger/v3"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	dbbadger "github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/token-launcher/internal/infrastructure/storage/db/inmemory"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType string
	// DBConfig is the datadir of the badger db.
	DBConfig interface{}
	// DBLogger is the logger of the badger db, nil disables db logs.
	DBLogger *log.Logger

	Ledger     ports.Ledger
	Keystore   ports.Keystore
	PubSub     ports.PubSub
	Publishers []ports.Publisher

	MinAttachedBalance *big.Int
	GuestKeyAllowance  *big.Int
	TokenWasm          []byte
	FactoryAccountID   string
	DefaultTokenID     string
	MaxBlockAge        uint64

	repo     ports.RepoManager
	pubsub   PubSubService
	intent   IntentService
	launcher LauncherService
	guest    GuestService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if c.Ledger == nil {
		return fmt.Errorf("missing ledger")
	}
	if c.Keystore == nil {
		return fmt.Errorf("missing keystore")
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.launcherService(); err != nil {
		return err
	}
	if _, err := c.guestService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) PubSubService() PubSubService {
	svc, _ := c.pubsubService()
	return svc
}

func (c *Config) IntentService() IntentService {
	svc, _ := c.intentService()
	return svc
}

func (c *Config) LauncherService() LauncherService {
	svc, _ := c.launcherService()
	return svc
}

func (c *Config) GuestService() GuestService {
	svc, _ := c.guestService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(
				datadir, badgerLogger(c.DBLogger),
			)
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("unsupported db type %s", c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) pubsubService() (PubSubService, error) {
	if c.pubsub == nil {
		c.pubsub = NewPubSubService(c.PubSub, c.Publishers...)
	}
	return c.pubsub, nil
}

func (c *Config) intentService() (IntentService, error) {
	if c.intent == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		intent, err := NewIntentService(repo, pubsub)
		if err != nil {
			return nil, err
		}
		c.intent = intent
	}
	return c.intent, nil
}

func (c *Config) launcherService() (LauncherService, error) {
	if c.launcher == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		intent, err := c.intentService()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		launcher, err := NewLauncherService(
			c.Ledger, c.Keystore, repo, intent, pubsub, LauncherConfig{
				MinAttachedBalance: c.MinAttachedBalance,
				TokenWasm:          c.TokenWasm,
				FactoryAccountID:   c.FactoryAccountID,
				DefaultTokenID:     c.DefaultTokenID,
			},
		)
		if err != nil {
			return nil, err
		}
		c.launcher = launcher
	}
	return c.launcher, nil
}

func (c *Config) guestService() (GuestService, error) {
	if c.guest == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		intent, err := c.intentService()
		if err != nil {
			return nil, err
		}
		pubsub, _ := c.pubsubService()
		guest, err := NewGuestService(
			c.Ledger, c.Keystore, repo, intent, pubsub, GuestConfig{
				KeyAllowance:   c.GuestKeyAllowance,
				DefaultTokenID: c.DefaultTokenID,
				MaxBlockAge:    c.MaxBlockAge,
			},
		)
		if err != nil {
			return nil, err
		}
		c.guest = guest
	}
	return c.guest, nil
}

func badgerLogger(logger *log.Logger) badger.Logger {
	if logger == nil {
		return nil
	}
	return logger
}
