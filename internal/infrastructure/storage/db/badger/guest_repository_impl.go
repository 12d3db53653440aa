package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type guestRepositoryImpl struct {
	store *badgerhold.Store
}

// NewGuestRepositoryImpl initialize a badger implementation of the
// domain.GuestRepository
func NewGuestRepositoryImpl(store *badgerhold.Store) domain.GuestRepository {
	return &guestRepositoryImpl{store}
}

func (r *guestRepositoryImpl) AddGuest(
	_ context.Context, guest *domain.Guest,
) error {
	if err := r.store.Insert(guest.Key(), *guest); err != nil {
		if err == badgerhold.ErrKeyExists {
			return domain.ErrGuestAlreadyExists
		}
		return err
	}
	return nil
}

func (r *guestRepositoryImpl) GetGuest(
	_ context.Context, tokenID, publicKey string,
) (*domain.Guest, error) {
	var guest domain.Guest
	if err := r.store.Get(domain.GuestKey(tokenID, publicKey), &guest); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrGuestNotFound
		}
		return nil, err
	}
	return &guest, nil
}

func (r *guestRepositoryImpl) UpdateGuest(
	_ context.Context, tokenID, publicKey string,
	updateFn func(g *domain.Guest) (*domain.Guest, error),
) error {
	key := domain.GuestKey(tokenID, publicKey)

	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var guest domain.Guest
		if err := r.store.TxGet(tx, key, &guest); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrGuestNotFound
			}
			return err
		}

		updatedGuest, err := updateFn(&guest)
		if err != nil {
			return err
		}

		return r.store.TxUpdate(tx, key, *updatedGuest)
	})
}

func (r *guestRepositoryImpl) ListGuests(
	_ context.Context, tokenID string, status domain.GuestStatus,
) ([]domain.Guest, error) {
	var query *badgerhold.Query
	if len(tokenID) > 0 {
		query = badgerhold.Where("TokenID").Eq(tokenID)
	}
	if len(status) > 0 {
		if query == nil {
			query = badgerhold.Where("Status").Eq(status)
		} else {
			query = query.And("Status").Eq(status)
		}
	}
	if query == nil {
		query = &badgerhold.Query{}
	}
	query = query.SortBy("CreatedAt", "AccountID")

	var guests []domain.Guest
	if err := r.store.Find(&guests, query); err != nil {
		return nil, err
	}
	return guests, nil
}
