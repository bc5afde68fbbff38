package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
)

type PgxSnapshotRepository struct {
	BaseRepository
}

// newPgxSnapshotRepository creates a new repository for balance snapshot data.
func newPgxSnapshotRepository(pool *pgxpool.Pool) portsrepo.SnapshotRepository {
	return &PgxSnapshotRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SnapshotRepository = (*PgxSnapshotRepository)(nil)

const snapshotColumns = `snapshot_id, company_id, account_code, balance_timestamp, balance, created_at`

func scanSnapshot(row pgx.Row) (*domain.BalanceSnapshot, error) {
	var s domain.BalanceSnapshot
	err := row.Scan(
		&s.SnapshotID,
		&s.CompanyID,
		&s.AccountCode,
		&s.Timestamp,
		&s.Balance,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSnapshot inserts a snapshot row. Monotonicity is re-checked inside the
// inserting transaction with the existing rows locked, so two concurrent
// checkpoints cannot interleave; the unique constraint on
// (company_id, account_code, balance_timestamp) is the backstop.
func (r *PgxSnapshotRepository) CreateSnapshot(ctx context.Context, snapshot domain.BalanceSnapshot) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var conflicting int
	checkQuery := `
		SELECT COUNT(*)
		FROM balance_snapshots
		WHERE company_id = $1 AND account_code = $2 AND balance_timestamp >= $3
		FOR UPDATE;
	`
	if err := tx.QueryRow(ctx, checkQuery, snapshot.CompanyID, snapshot.AccountCode, snapshot.Timestamp).Scan(&conflicting); err != nil {
		return fmt.Errorf("failed to check snapshot monotonicity for account %s: %w", snapshot.AccountCode, err)
	}
	if conflicting > 0 {
		return fmt.Errorf("%w: a snapshot at or after %s already exists for account %s",
			apperrors.ErrRetroactiveOperation, snapshot.Timestamp.Format(time.RFC3339), snapshot.AccountCode)
	}

	insertQuery := `
		INSERT INTO balance_snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, insertQuery,
		snapshot.SnapshotID,
		snapshot.CompanyID,
		snapshot.AccountCode,
		snapshot.Timestamp,
		snapshot.Balance,
		snapshot.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: snapshot at %s already exists for account %s",
				apperrors.ErrDuplicate, snapshot.Timestamp.Format(time.RFC3339), snapshot.AccountCode)
		}
		return fmt.Errorf("failed to insert snapshot for account %s: %w", snapshot.AccountCode, err)
	}

	return r.Commit(ctx, tx)
}

// FindLatestAtOrBefore returns the most recent snapshot with timestamp <= asOf.
func (r *PgxSnapshotRepository) FindLatestAtOrBefore(ctx context.Context, companyID, accountCode string, asOf time.Time) (*domain.BalanceSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM balance_snapshots
		WHERE company_id = $1 AND account_code = $2 AND balance_timestamp <= $3
		ORDER BY balance_timestamp DESC
		LIMIT 1;
	`
	snapshot, err := scanSnapshot(r.Pool.QueryRow(ctx, query, companyID, accountCode, asOf))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no snapshot for account %s", apperrors.ErrNotFound, accountCode)
		}
		return nil, fmt.Errorf("failed to find snapshot for account %s: %w", accountCode, err)
	}
	return snapshot, nil
}

// FindLatest returns the most recent snapshot regardless of timestamp.
func (r *PgxSnapshotRepository) FindLatest(ctx context.Context, companyID, accountCode string) (*domain.BalanceSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM balance_snapshots
		WHERE company_id = $1 AND account_code = $2
		ORDER BY balance_timestamp DESC
		LIMIT 1;
	`
	snapshot, err := scanSnapshot(r.Pool.QueryRow(ctx, query, companyID, accountCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no snapshot for account %s", apperrors.ErrNotFound, accountCode)
		}
		return nil, fmt.Errorf("failed to find latest snapshot for account %s: %w", accountCode, err)
	}
	return snapshot, nil
}
