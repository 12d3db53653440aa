package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/token-launcher/internal/core/domain"
)

type guestRepositoryImpl struct {
	guests map[string]domain.Guest

	lock *sync.RWMutex
}

// NewGuestRepositoryImpl returns a new empty in-memory domain.GuestRepository
func NewGuestRepositoryImpl() domain.GuestRepository {
	return &guestRepositoryImpl{
		guests: map[string]domain.Guest{},
		lock:   &sync.RWMutex{},
	}
}

func (r *guestRepositoryImpl) AddGuest(
	_ context.Context, guest *domain.Guest,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.guests[guest.Key()]; ok {
		return domain.ErrGuestAlreadyExists
	}
	r.guests[guest.Key()] = *guest
	return nil
}

func (r *guestRepositoryImpl) GetGuest(
	_ context.Context, tokenID, publicKey string,
) (*domain.Guest, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	guest, ok := r.guests[domain.GuestKey(tokenID, publicKey)]
	if !ok {
		return nil, domain.ErrGuestNotFound
	}
	return &guest, nil
}

func (r *guestRepositoryImpl) UpdateGuest(
	_ context.Context, tokenID, publicKey string,
	updateFn func(g *domain.Guest) (*domain.Guest, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.GuestKey(tokenID, publicKey)
	guest, ok := r.guests[key]
	if !ok {
		return domain.ErrGuestNotFound
	}

	updatedGuest, err := updateFn(&guest)
	if err != nil {
		return err
	}

	r.guests[key] = *updatedGuest
	return nil
}

func (r *guestRepositoryImpl) ListGuests(
	_ context.Context, tokenID string, status domain.GuestStatus,
) ([]domain.Guest, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	guests := make([]domain.Guest, 0)
	for _, g := range r.guests {
		if len(tokenID) > 0 && g.TokenID != tokenID {
			continue
		}
		if len(status) > 0 && g.Status != status {
			continue
		}
		guests = append(guests, g)
	}
	sort.SliceStable(guests, func(i, j int) bool {
		if guests[i].CreatedAt == guests[j].CreatedAt {
			return guests[i].AccountID < guests[j].AccountID
		}
		return guests[i].CreatedAt < guests[j].CreatedAt
	})
	return guests, nil
}
