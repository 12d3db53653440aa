package pubsub

import (
	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/timshannon/badgerhold/v4"
)

// store persists the webhook subscriptions.
type store struct {
	db *badgerhold.Store
}

// newStore opens the subscriptions store in dbDir, in-memory if empty.
func newStore(dbDir string, logger badger.Logger) (*store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if len(dbDir) <= 0 {
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
	return &store{db}, nil
}

func (s *store) add(sub Subscription) error {
	return s.db.Insert(sub.ID, sub)
}

func (s *store) get(id string) (*Subscription, error) {
	sub := Subscription{}
	if err := s.db.Get(id, &sub); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *store) remove(id string) error {
	if err := s.db.Delete(id, Subscription{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return ErrSubscriptionNotFound
		}
		return err
	}
	return nil
}

// listForTopics returns the subscriptions for any of the given topics, all
// of them if no topic is given.
func (s *store) listForTopics(topics ...string) (subscriptions, error) {
	query := &badgerhold.Query{}
	if len(topics) > 0 {
		values := make([]interface{}, 0, len(topics))
		for _, t := range topics {
			values = append(values, t)
		}
		query = badgerhold.Where("Event").In(values...).Index("Event")
	}

	var subs subscriptions
	if err := s.db.Find(&subs, query.SortBy("ID")); err != nil {
		return nil, err
	}
	return subs, nil
}

func (s *store) close() error {
	return s.db.Close()
}
