package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"positionScope/internal/storage"
)

// Store archives computed series points in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertChartPoints inserts or updates series points for a user.
func (s *Store) UpsertChartPoints(ctx context.Context, records []storage.SeriesRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO chart_points (
				user_address, series, point_ts, date_label,
				total_deposits, total_borrows, total_collateral,
				supply_apy, borrow_rate, created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,now(),now())
			ON CONFLICT (user_address, series, point_ts)
			DO UPDATE SET
				date_label = EXCLUDED.date_label,
				total_deposits = EXCLUDED.total_deposits,
				total_borrows = EXCLUDED.total_borrows,
				total_collateral = EXCLUDED.total_collateral,
				supply_apy = EXCLUDED.supply_apy,
				borrow_rate = EXCLUDED.borrow_rate,
				updated_at = now()
		`,
			record.User,
			record.Series,
			int64(record.Point.Timestamp),
			record.Point.DateLabel,
			record.Point.TotalDeposits,
			record.Point.TotalBorrows,
			record.Point.TotalCollateral,
			record.Point.SupplyAPY,
			record.Point.BorrowRate,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns the last successful cycle timestamp for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts uint64
	row := s.pool.QueryRow(ctx, `SELECT last_cycle_ts FROM dashboard_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveState upserts the last successful cycle timestamp for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO dashboard_state (name, last_cycle_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_cycle_ts = EXCLUDED.last_cycle_ts, updated_at = now()
	`, name, ts)
	return err
}
