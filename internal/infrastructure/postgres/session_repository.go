package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/domain"
	"github.com/optimizar-ia/facturador/internal/domain/entity"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
)

var _ billing.SessionStore = (*SessionRepo)(nil)

// schemaStatements tabla de sesiones del asistente. El estado completo va en JSONB; paso, tipo y
// total quedan en columnas para consultas.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS wizard_sessions (
		id           TEXT PRIMARY KEY,
		owner        TEXT NOT NULL,
		step         TEXT NOT NULL,
		invoice_type TEXT NOT NULL DEFAULT '',
		total        NUMERIC(18,2) NOT NULL DEFAULT 0,
		state        JSONB NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_wizard_sessions_owner ON wizard_sessions (owner, updated_at DESC)`,
}

// SessionRepo implementación de billing.SessionStore sobre PostgreSQL.
type SessionRepo struct {
	pool *pgxpool.Pool
	calc *invoice.Calculator
}

// NewSessionRepository construye el adaptador. calc se usa para mantener la columna total.
func NewSessionRepository(pool *pgxpool.Pool, calc *invoice.Calculator) *SessionRepo {
	return &SessionRepo{pool: pool, calc: calc}
}

// EnsureSchema crea la tabla si no existe.
func (r *SessionRepo) EnsureSchema(ctx context.Context) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema wizard_sessions: %w", err)
			}
		}
		return nil
	})
}

// Create persiste una sesión nueva.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializar sesión: %w", err)
	}
	query := `
		INSERT INTO wizard_sessions (id, owner, step, invoice_type, total, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.pool.Exec(ctx, query,
		s.ID, s.Owner, string(s.Step), string(s.Header.InvoiceType), r.total(s),
		state, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sesión %s duplicada", domain.ErrInvalidInput, s.ID)
		}
		return fmt.Errorf("insert wizard_session: %w", err)
	}
	return nil
}

// Get obtiene una sesión por ID.
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	var state []byte
	err := r.pool.QueryRow(ctx, `SELECT state FROM wizard_sessions WHERE id = $1`, id).Scan(&state)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get wizard_session: %w", err)
	}
	var s entity.Session
	if err := json.Unmarshal(state, &s); err != nil {
		return nil, fmt.Errorf("leer estado de sesión %s: %w", id, err)
	}
	return &s, nil
}

// Save reemplaza el estado de una sesión existente.
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	state, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializar sesión: %w", err)
	}
	query := `
		UPDATE wizard_sessions
		SET step = $2, invoice_type = $3, total = $4, state = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query,
		s.ID, string(s.Step), string(s.Header.InvoiceType), r.total(s), state, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update wizard_session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepo) total(s *entity.Session) decimal.Decimal {
	_, totals, _ := r.calc.ComputeTotals(s.Items, s.Header.InvoiceType)
	return totals.Gross.Round(2)
}
