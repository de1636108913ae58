package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Workspace Manager
// ============================================================

var ErrWorkspaceNotFound = errors.New("workspace not found")

type Manager struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	log        *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		workspaces: make(map[string]*Workspace),
		log:        log,
	}
}

// Create opens an empty workspace under a fresh id.
func (m *Manager) Create() *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.NewString()
	ws := NewWorkspace(id, m.log)
	m.workspaces[id] = ws

	m.log.Info("workspace opened", zap.String("workspace_id", id))
	return ws
}

func (m *Manager) Get(id string) (*Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ws, ok := m.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.workspaces[id]; !ok {
		return ErrWorkspaceNotFound
	}
	delete(m.workspaces, id)

	m.log.Info("workspace closed", zap.String("workspace_id", id))
	return nil
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.workspaces)
}
