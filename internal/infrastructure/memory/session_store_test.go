package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/infrastructure/memory"
)

func TestSessionStore_CreateGetSave(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	s := entity.NewSession("operador", time.Now())

	require.NoError(t, store.Create(ctx, s))
	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Len(t, got.Items, 1)

	got.Issuer.LegalName = "ACME SA"
	require.NoError(t, store.Save(ctx, got))

	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME SA", again.Issuer.LegalName)
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_DevuelveCopias(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	s := entity.NewSession("operador", time.Now())
	require.NoError(t, store.Create(ctx, s))

	// modificar el original después de guardarlo no afecta al store
	s.Items[0].Description = "cambiado afuera"

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items[0].Description)

	got.Items[0].Description = "cambiado sin guardar"
	again, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Items[0].Description)
}

func TestSessionStore_NoEncontrada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()

	_, err := store.Get(ctx, "inexistente")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = store.Save(ctx, entity.NewSession("operador", time.Now()))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_AccesoConcurrente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	s := entity.NewSession("operador", time.Now())
	require.NoError(t, store.Create(ctx, s))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Get(ctx, s.ID)
			if err != nil {
				return
			}
			_ = store.Save(ctx, got)
		}()
	}
	wg.Wait()

	_, err := store.Get(ctx, s.ID)
	assert.NoError(t, err)
}
