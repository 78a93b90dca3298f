// Package memory implementa el almacenamiento de sesiones en memoria del proceso.
package memory

import (
	"context"
	"sync"

	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
)

// SessionStore implementa billing.SessionStore. Guarda y devuelve copias: quien llama nunca
// comparte memoria con el estado almacenado.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
}

// NewSessionStore construye un store vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*entity.Session)}
}

// Create agrega una sesión nueva.
func (r *SessionStore) Create(_ context.Context, s *entity.Session) error {
	if s == nil || s.ID == "" {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s.Clone()
	return nil
}

// Get obtiene una sesión por ID.
func (r *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Clone(), nil
}

// Save reemplaza una sesión existente.
func (r *SessionStore) Save(_ context.Context, s *entity.Session) error {
	if s == nil {
		return domain.ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

// Len cantidad de sesiones almacenadas.
func (r *SessionStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
