package kyc

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu     sync.RWMutex
	byUser map[string]Submission
	order  []string
}

// NewMemoryRepository builds an in-memory submission store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{byUser: make(map[string]Submission)}
}

func (r *memoryRepository) Create(_ context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byUser[sub.UserID]; exists {
		return ErrAlreadySubmitted
	}
	r.byUser[sub.UserID] = sub
	r.order = append(r.order, sub.UserID)
	return nil
}

func (r *memoryRepository) FindByUser(_ context.Context, userID string) (Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byUser[userID]
	if !ok {
		return Submission{}, ErrNotFound
	}
	return sub, nil
}

func (r *memoryRepository) Update(_ context.Context, sub Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byUser[sub.UserID]
	if !ok || existing.ID != sub.ID {
		return ErrNotFound
	}
	r.byUser[sub.UserID] = sub
	return nil
}

func (r *memoryRepository) List(_ context.Context, offset, limit int) ([]Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset >= len(r.order) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}
	subs := make([]Submission, 0, end-offset)
	for _, userID := range r.order[offset:end] {
		subs = append(subs, r.byUser[userID])
	}
	return subs, nil
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byUser)), nil
}

func (r *memoryRepository) CountByStatus(_ context.Context, status Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, sub := range r.byUser {
		if sub.Status == status {
			count++
		}
	}
	return count, nil
}
