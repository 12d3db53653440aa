package guest

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/token-launcher/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 8

// ReconcileGuests checks every active guest of the local registry against
// the token registry. Guests no longer registered are marked as upgraded if
// their account exists, removed otherwise.
func (s *service) ReconcileGuests(
	ctx context.Context, tokenID string,
) ([]domain.Guest, error) {
	tokenID, err := s.tokenID(tokenID)
	if err != nil {
		return nil, err
	}
	repo := s.repoManager.GuestRepository()

	guests, err := repo.ListGuests(ctx, tokenID, domain.GuestActive)
	if err != nil {
		return nil, err
	}

	lock := &sync.Mutex{}
	statuses := make(map[string]domain.GuestStatus)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentLookups)
	for i := range guests {
		guest := guests[i]
		eg.Go(func() error {
			status, err := s.registryStatus(egCtx, guest)
			if err != nil {
				return err
			}
			lock.Lock()
			statuses[guest.PublicKey] = status
			lock.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for pk, status := range statuses {
		if status == domain.GuestActive {
			continue
		}
		if err := repo.UpdateGuest(
			ctx, tokenID, pk, func(g *domain.Guest) (*domain.Guest, error) {
				mark := g.MarkRemoved
				if status == domain.GuestUpgraded {
					mark = g.MarkUpgraded
				}
				if err := mark(); err != nil {
					return nil, err
				}
				return g, nil
			},
		); err != nil {
			return nil, err
		}
		log.Debugf("guest %s of %s is now %s", pk, tokenID, status)
	}

	return repo.ListGuests(ctx, tokenID, "")
}

func (s *service) registryStatus(
	ctx context.Context, guest domain.Guest,
) (domain.GuestStatus, error) {
	accountID, err := s.getGuest(ctx, guest.TokenID, guest.PublicKey)
	if err == nil && accountID == guest.AccountID {
		return domain.GuestActive, nil
	}
	if err != nil && !errors.Is(err, domain.ErrGuestNotFound) {
		return "", err
	}

	exists, err := s.ledger.AccountExists(ctx, guest.AccountID)
	if err != nil {
		return "", err
	}
	if exists {
		return domain.GuestUpgraded, nil
	}
	return domain.GuestRemoved, nil
}
