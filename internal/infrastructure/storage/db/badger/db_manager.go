package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/tdex-network/token-launcher/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const (
	intentsDir = "intents"
	tokensDir  = "tokens"
	guestsDir  = "guests"
)

type repoManager struct {
	stores []*badgerhold.Store

	intentRepository domain.IntentRepository
	tokenRepository  domain.TokenRepository
	guestRepository  domain.GuestRepository
}

// NewRepoManager opens (or creates if not exists) the badger stores on disk.
// It creates a dedicated directory for intents, tokens and guests. An empty
// baseDbDir makes all stores in-memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	intentsDb, err := createDb(dbPath(baseDbDir, intentsDir), logger)
	if err != nil {
		return nil, fmt.Errorf("opening intents db: %w", err)
	}

	tokensDb, err := createDb(dbPath(baseDbDir, tokensDir), logger)
	if err != nil {
		return nil, fmt.Errorf("opening tokens db: %w", err)
	}

	guestsDb, err := createDb(dbPath(baseDbDir, guestsDir), logger)
	if err != nil {
		return nil, fmt.Errorf("opening guests db: %w", err)
	}

	return &repoManager{
		stores:           []*badgerhold.Store{intentsDb, tokensDb, guestsDb},
		intentRepository: NewIntentRepositoryImpl(intentsDb),
		tokenRepository:  NewTokenRepositoryImpl(tokensDb),
		guestRepository:  NewGuestRepositoryImpl(guestsDb),
	}, nil
}

func (d *repoManager) IntentRepository() domain.IntentRepository {
	return d.intentRepository
}

func (d *repoManager) TokenRepository() domain.TokenRepository {
	return d.tokenRepository
}

func (d *repoManager) GuestRepository() domain.GuestRepository {
	return d.guestRepository
}

func (d *repoManager) Close() {
	for _, store := range d.stores {
		if err := store.Close(); err != nil {
			log.WithError(err).Warn("error while closing db")
		}
	}
}

func dbPath(baseDbDir, dir string) string {
	if len(baseDbDir) <= 0 {
		return ""
	}
	return filepath.Join(baseDbDir, dir)
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for {
				<-ticker.C
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					err != badger.ErrNoRewrite {
					log.Error(err)
				}
			}
		}()
	}

	return db, nil
}
