package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type intentRepositoryImpl struct {
	store *badgerhold.Store
}

// NewIntentRepositoryImpl initialize a badger implementation of the
// domain.IntentRepository
func NewIntentRepositoryImpl(store *badgerhold.Store) domain.IntentRepository {
	return &intentRepositoryImpl{store}
}

func (r *intentRepositoryImpl) AddIntent(
	_ context.Context, intent *domain.Intent,
) error {
	if err := r.store.Insert(intent.ID, *intent); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrIntentAlreadyExists
		}
		return err
	}
	return nil
}

func (r *intentRepositoryImpl) GetIntent(
	_ context.Context, id string,
) (*domain.Intent, error) {
	var intent domain.Intent
	if err := r.store.Get(id, &intent); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrIntentNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *intentRepositoryImpl) UpdateIntent(
	_ context.Context,
	id string, updateFn func(i *domain.Intent) (*domain.Intent, error),
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var intent domain.Intent
		if err := r.store.TxGet(tx, id, &intent); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrIntentNotFound
			}
			return err
		}

		updatedIntent, err := updateFn(&intent)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, id, *updatedIntent)
	})
}

func (r *intentRepositoryImpl) ListIntents(
	_ context.Context, status domain.IntentStatus, page *domain.Page,
) ([]domain.Intent, error) {
	query := &badgerhold.Query{}
	if len(status) > 0 {
		query = badgerhold.Where("Status").Eq(status)
	}
	query = query.SortBy("CreatedAt", "ID").Reverse()
	if page != nil {
		query = query.Skip((page.Number - 1) * page.Size).Limit(page.Size)
	}

	return r.findIntents(query)
}

func (r *intentRepositoryImpl) ListIntentsForTarget(
	_ context.Context, target string,
) ([]domain.Intent, error) {
	query := badgerhold.Where("Target").Eq(target).
		SortBy("CreatedAt", "ID").Reverse()

	return r.findIntents(query)
}

func (r *intentRepositoryImpl) findIntents(
	query *badgerhold.Query,
) ([]domain.Intent, error) {
	var intents []domain.Intent
	if err := r.store.Find(&intents, query); err != nil {
		return nil, err
	}
	return intents, nil
}
