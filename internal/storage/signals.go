// Package storage provides the PostgreSQL-backed signal log, used instead of
// the JSON file store when a database DSN is configured.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"crypto-buy-alerts/internal/recorder"
)

// ErrNotConfigured indicates the storage pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

const (
	insertSignalSQL = `INSERT INTO signals (
        symbol,
        entry_price,
        take_profits,
        stop_loss,
        stake,
        setups,
        signaled_at
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7
    );`

	listRecentSignalsSQL = `SELECT
        symbol,
        entry_price,
        take_profits,
        stop_loss,
        stake,
        setups,
        signaled_at
    FROM signals
    ORDER BY id DESC
    LIMIT $1;`

	countSignalsSQL = `SELECT COUNT(*) FROM signals;`

	deleteSignalsBeforeSQL = `DELETE FROM signals WHERE signaled_at < $1;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// Store is a recorder.SignalStore over a pgx pool. Appends are atomic at the
// database level, so overlapping watch runs cannot corrupt the log.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// Append persists one signal record.
func (s *Store) Append(ctx context.Context, rec recorder.SignalRecord) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}

	tps := make([]string, len(rec.TakeProfits))
	for i, tp := range rec.TakeProfits {
		tps[i] = tp.String()
	}

	_, execErr := pool.Exec(ctx, insertSignalSQL,
		rec.Symbol,
		rec.EntryPrice.String(),
		tps,
		rec.StopLoss.String(),
		rec.Stake.String(),
		rec.Setups,
		rec.SignaledAt,
	)
	if execErr != nil {
		return fmt.Errorf("insert signal: %w", execErr)
	}
	return nil
}

// Recent returns the last n signals in insertion order.
func (s *Store) Recent(ctx context.Context, n int) ([]recorder.SignalRecord, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentSignalsSQL, n)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent signals: %w", queryErr)
	}
	defer rows.Close()

	records := make([]recorder.SignalRecord, 0, n)
	for rows.Next() {
		rec, scanErr := scanSignal(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	// Query is newest-first for the LIMIT; callers expect insertion order.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// Count counts stored signals.
func (s *Store) Count(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countSignalsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count signals: %w", scanErr)
	}
	return count, nil
}

// DeleteBefore removes signals older than the given time. Retention is an
// operator concern; the scanner itself never deletes records.
func (s *Store) DeleteBefore(ctx context.Context, olderThan time.Time) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, execErr := pool.Exec(ctx, deleteSignalsBeforeSQL, olderThan); execErr != nil {
		return fmt.Errorf("delete signals before: %w", execErr)
	}
	return nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a
// release func. Used to keep overlapping watch runs single-writer.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if _, err := conn.Exec(ctxUnlock, advisoryUnlockSQL, key); err != nil {
			// unlock best effort; log omitted in storage package
		}
		conn.Release()
	}
	return unlock, true, nil
}

func scanSignal(rows pgx.Rows) (recorder.SignalRecord, error) {
	var (
		symbol     string
		entryStr   string
		tpStrs     []string
		stopStr    string
		stakeStr   string
		setups     []string
		signaledAt time.Time
	)

	if err := rows.Scan(&symbol, &entryStr, &tpStrs, &stopStr, &stakeStr, &setups, &signaledAt); err != nil {
		return recorder.SignalRecord{}, err
	}

	entry, err := decimal.NewFromString(entryStr)
	if err != nil {
		return recorder.SignalRecord{}, fmt.Errorf("parse entry price: %w", err)
	}
	stop, err := decimal.NewFromString(stopStr)
	if err != nil {
		return recorder.SignalRecord{}, fmt.Errorf("parse stop loss: %w", err)
	}
	stake, err := decimal.NewFromString(stakeStr)
	if err != nil {
		return recorder.SignalRecord{}, fmt.Errorf("parse stake: %w", err)
	}

	tps := make([]decimal.Decimal, len(tpStrs))
	for i, s := range tpStrs {
		tps[i], err = decimal.NewFromString(s)
		if err != nil {
			return recorder.SignalRecord{}, fmt.Errorf("parse take profit: %w", err)
		}
	}

	return recorder.SignalRecord{
		Symbol:      symbol,
		EntryPrice:  entry,
		TakeProfits: tps,
		StopLoss:    stop,
		Stake:       stake,
		Setups:      setups,
		SignaledAt:  signaledAt,
	}, nil
}

var _ recorder.SignalStore = (*Store)(nil)
