// Package sessions persists the auth session between client runs.
package sessions

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
)

// Storage keeps at most one session.
type Storage interface {
	// Load returns (nil, nil) when nothing is stored.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Clear(ctx context.Context) error
}

// Memory is a process-local Storage.
type Memory struct {
	mu      sync.Mutex
	session *models.Session
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(ctx context.Context) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *Memory) Save(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.session = &cp
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
