package storage

// sqlite.go — log de actividad ligero y sin ruido.
//
// Estrategia:
//   - `order_events`: una fila por evento del ciclo de vida de una orden
//     (submit, cancel, wrap). Append-only.
//   - `stake_snapshots`: una fila por (provider, programa) en cada snapshot.
//     Los amounts se guardan como TEXT — son enteros de 256 bits y REAL
//     perdería precisión.
//   - Prune automático al arrancar: eventos > 90d, snapshots > 30d.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/swapdesk/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Eventos del ciclo de vida de órdenes, append-only
CREATE TABLE IF NOT EXISTS order_events (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    kind       TEXT     NOT NULL,
    order_hash TEXT     NOT NULL DEFAULT '',
    tx_hash    TEXT     NOT NULL DEFAULT '',
    detail     TEXT     NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL
);

-- Snapshot de posiciones de staking: una fila por (provider, programa)
CREATE TABLE IF NOT EXISTS stake_snapshots (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    provider      TEXT     NOT NULL,
    program_id    TEXT     NOT NULL,
    pool          TEXT     NOT NULL,
    pool_amount   TEXT     NOT NULL,
    token_amount  TEXT     NOT NULL,
    pending_rwd   TEXT     NOT NULL,
    taken_at      DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_at     ON order_events(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_snap_provider ON stake_snapshots(provider, taken_at DESC);
`

const (
	retentionEvents    = 90 * 24 * time.Hour // eventos: 90 días
	retentionSnapshots = 30 * 24 * time.Hour // snapshots: 30 días
)

// SQLiteLog implementa ports.ActivityLog usando SQLite (pure Go, sin CGo).
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteLog(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteLog: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteLog: apply schema: %w", err)
	}

	s := &SQLiteLog{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// RecordOrderEvent registra un evento de orden. Si CreatedAt viene vacío
// se usa el momento actual.
func (s *SQLiteLog) RecordOrderEvent(ctx context.Context, ev domain.OrderEvent) error {
	at := ev.CreatedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO order_events (kind, order_hash, tx_hash, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(ev.Kind), ev.OrderHash, ev.TxHash, ev.Detail, at.UTC(),
	); err != nil {
		return fmt.Errorf("storage.RecordOrderEvent: insert: %w", err)
	}
	return nil
}

// RecentOrderEvents devuelve los últimos eventos, más recientes primero.
func (s *SQLiteLog) RecentOrderEvents(ctx context.Context, limit int) ([]domain.OrderEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, order_hash, tx_hash, detail, created_at
		FROM order_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentOrderEvents: query: %w", err)
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var ev domain.OrderEvent
		var kind string
		if err := rows.Scan(&ev.ID, &kind, &ev.OrderHash, &ev.TxHash, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("storage.RecentOrderEvents: scan row: %w", err)
		}
		ev.Kind = domain.OrderEventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// RecordStakeSnapshot registra el estado actual de los stakes de un provider.
// Todo el snapshot va en una única transacción.
func (s *SQLiteLog) RecordStakeSnapshot(ctx context.Context, provider string, stakes []domain.ProviderStake) error {
	if len(stakes) == 0 {
		return nil
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.RecordStakeSnapshot: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stake_snapshots
			(provider, program_id, pool, pool_amount, token_amount, pending_rwd, taken_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.RecordStakeSnapshot: prepare: %w", err)
	}
	defer stmt.Close()

	for _, st := range stakes {
		if _, err := stmt.ExecContext(ctx,
			provider,
			st.ID,
			st.Pool,
			st.PoolTokenAmountWei.String(),
			st.TokenAmountWei.String(),
			st.PendingRewardsWei.String(),
			now,
		); err != nil {
			return fmt.Errorf("storage.RecordStakeSnapshot: insert program %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.RecordStakeSnapshot: commit: %w", err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteLog) Close() error {
	return s.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteLog) pruneOld(ctx context.Context) {
	cutoffEvents := time.Now().UTC().Add(-retentionEvents)
	cutoffSnaps := time.Now().UTC().Add(-retentionSnapshots)
	s.db.ExecContext(ctx, `DELETE FROM order_events WHERE created_at < ?`, cutoffEvents)
	s.db.ExecContext(ctx, `DELETE FROM stake_snapshots WHERE taken_at < ?`, cutoffSnaps)
}
