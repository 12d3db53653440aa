package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/tdex-network/token-launcher/internal/core/domain"
)

type intentRepositoryImpl struct {
	intents map[string]domain.Intent

	lock *sync.RWMutex
}

// NewIntentRepositoryImpl returns a new empty in-memory domain.IntentRepository
func NewIntentRepositoryImpl() domain.IntentRepository {
	return &intentRepositoryImpl{
		intents: map[string]domain.Intent{},
		lock:    &sync.RWMutex{},
	}
}

func (r *intentRepositoryImpl) AddIntent(
	_ context.Context, intent *domain.Intent,
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.intents[intent.ID]; ok {
		return ErrIntentAlreadyExists
	}
	r.intents[intent.ID] = copyIntent(*intent)
	return nil
}

func (r *intentRepositoryImpl) GetIntent(
	_ context.Context, id string,
) (*domain.Intent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	intent, ok := r.intents[id]
	if !ok {
		return nil, domain.ErrIntentNotFound
	}
	intent = copyIntent(intent)
	return &intent, nil
}

func (r *intentRepositoryImpl) UpdateIntent(
	_ context.Context,
	id string, updateFn func(i *domain.Intent) (*domain.Intent, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	intent, ok := r.intents[id]
	if !ok {
		return domain.ErrIntentNotFound
	}
	intent = copyIntent(intent)

	updatedIntent, err := updateFn(&intent)
	if err != nil {
		return err
	}

	r.intents[id] = copyIntent(*updatedIntent)
	return nil
}

func (r *intentRepositoryImpl) ListIntents(
	_ context.Context, status domain.IntentStatus, page *domain.Page,
) ([]domain.Intent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	intents := r.filter(func(i domain.Intent) bool {
		return len(status) <= 0 || i.Status == status
	})
	if page != nil {
		start, end := page.Bounds(len(intents))
		intents = intents[start:end]
	}
	return intents, nil
}

func (r *intentRepositoryImpl) ListIntentsForTarget(
	_ context.Context, target string,
) ([]domain.Intent, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.filter(func(i domain.Intent) bool {
		return i.Target == target
	}), nil
}

// filter returns the matching intents, most recent first.
func (r *intentRepositoryImpl) filter(
	match func(i domain.Intent) bool,
) []domain.Intent {
	intents := make([]domain.Intent, 0)
	for _, i := range r.intents {
		if match(i) {
			intents = append(intents, copyIntent(i))
		}
	}
	sort.SliceStable(intents, func(a, b int) bool {
		if intents[a].CreatedAt == intents[b].CreatedAt {
			return intents[a].ID > intents[b].ID
		}
		return intents[a].CreatedAt > intents[b].CreatedAt
	})
	return intents
}

func copyIntent(i domain.Intent) domain.Intent {
	steps := make([]domain.IntentStep, len(i.Steps))
	copy(steps, i.Steps)
	i.Steps = steps
	return i
}
