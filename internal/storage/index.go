package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/nikhilbhutani/memocast/internal/apperr"
	"github.com/nikhilbhutani/memocast/internal/models"
)

// Index tracks memo metadata for the directory store.
type Index interface {
	Put(ctx context.Context, memo *models.Memo) error
	Get(ctx context.Context, id string) (*models.Memo, error)
	// List returns a newest-first page and the total number of memos.
	List(ctx context.Context, limit, offset int) ([]models.Memo, int, error)
	// Remove deletes the entry and returns it.
	Remove(ctx context.Context, id string) (*models.Memo, error)
}

// MemoryIndex keeps memos in process memory; its contents are lost on restart.
type MemoryIndex struct {
	mu    sync.RWMutex
	memos map[string]models.Memo
	order []string // insertion order, oldest first
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{memos: make(map[string]models.Memo)}
}

func (m *MemoryIndex) Put(_ context.Context, memo *models.Memo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.memos[memo.ID]; !exists {
		m.order = append(m.order, memo.ID)
	}
	m.memos[memo.ID] = *memo
	return nil
}

func (m *MemoryIndex) Get(_ context.Context, id string) (*models.Memo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	memo, ok := m.memos[id]
	if !ok {
		return nil, memoNotFound(id)
	}
	return &memo, nil
}

func (m *MemoryIndex) List(_ context.Context, limit, offset int) ([]models.Memo, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	total := len(m.order)
	out := []models.Memo{}
	for i := total - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.memos[m.order[i]])
	}
	return out, total, nil
}

func (m *MemoryIndex) Remove(_ context.Context, id string) (*models.Memo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	memo, ok := m.memos[id]
	if !ok {
		return nil, memoNotFound(id)
	}
	delete(m.memos, id)
	if i := slices.Index(m.order, id); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return &memo, nil
}

func memoNotFound(id string) *apperr.Error {
	return apperr.NotFound("memo lookup", "Memo not found").WithDetail("memoId", id)
}
