package macaroons

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const rootKeyLen = 32

// DefaultRootKeyID is the id of the root key used to bake every macaroon.
var DefaultRootKeyID = []byte("0")

type rootKey struct {
	ID        string
	Key       []byte
	CreatedAt int64
}

// RootKeyStore persists macaroon root keys in badger. It implements
// bakery.RootKeyStore.
type RootKeyStore struct {
	store *badgerhold.Store
	lock  sync.Mutex
}

// NewRootKeyStore opens the store in dbDir. An empty dir means in-memory.
func NewRootKeyStore(dbDir string, logger badger.Logger) (*RootKeyStore, error) {
	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening macaroon db: %w", err)
	}
	return &RootKeyStore{store: store}, nil
}

// Get returns the root key for the given id.
func (r *RootKeyStore) Get(_ context.Context, id []byte) ([]byte, error) {
	var key rootKey
	if err := r.store.Get(string(id), &key); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, bakery.ErrNotFound
		}
		return nil, err
	}
	return key.Key, nil
}

// RootKey returns the default root key, generating it at first use.
func (r *RootKeyStore) RootKey(ctx context.Context) ([]byte, []byte, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := DefaultRootKeyID
	key, err := r.Get(ctx, id)
	if err == nil {
		return key, id, nil
	}
	if err != bakery.ErrNotFound {
		return nil, nil, err
	}

	key = make([]byte, rootKeyLen)
	if _, err := rand.Read(key); err != nil {
		return nil, nil, err
	}
	if err := r.store.Insert(string(id), rootKey{
		ID:        string(id),
		Key:       key,
		CreatedAt: time.Now().Unix(),
	}); err != nil {
		return nil, nil, err
	}
	return key, id, nil
}

func (r *RootKeyStore) Close() error {
	return r.store.Close()
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
