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

type PgxClosingRepository struct {
	BaseRepository
}

// newPgxClosingRepository creates a new repository for accounting closing data.
func newPgxClosingRepository(pool *pgxpool.Pool) portsrepo.ClosingRepository {
	return &PgxClosingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ClosingRepository = (*PgxClosingRepository)(nil)

const closingColumns = `closing_id, company_id, closing_date, period_name, status, notes, created_at, created_by, last_updated_at, last_updated_by`

func scanClosing(row pgx.Row) (*domain.AccountingClosing, error) {
	var c domain.AccountingClosing
	err := row.Scan(
		&c.ClosingID,
		&c.CompanyID,
		&c.ClosingDate,
		&c.PeriodName,
		&c.Status,
		&c.Notes,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxClosingRepository) SaveClosing(ctx context.Context, closing domain.AccountingClosing) error {
	query := `
		INSERT INTO accounting_closings (` + closingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		closing.ClosingID,
		closing.CompanyID,
		closing.ClosingDate,
		closing.PeriodName,
		closing.Status,
		closing.Notes,
		closing.CreatedAt,
		closing.CreatedBy,
		closing.LastUpdatedAt,
		closing.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: closing %s", apperrors.ErrDuplicate, closing.ClosingID)
		}
		return fmt.Errorf("failed to save closing %s: %w", closing.ClosingID, err)
	}
	return nil
}

func (r *PgxClosingRepository) FindClosingByID(ctx context.Context, closingID string) (*domain.AccountingClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM accounting_closings WHERE closing_id = $1;`

	closing, err := scanClosing(r.Pool.QueryRow(ctx, query, closingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: closing %s", apperrors.ErrNotFound, closingID)
		}
		return nil, fmt.Errorf("failed to find closing %s: %w", closingID, err)
	}
	return closing, nil
}

// FindLatestClosed returns the CLOSED or AUDITED closing with the latest
// closing date.
func (r *PgxClosingRepository) FindLatestClosed(ctx context.Context, companyID string) (*domain.AccountingClosing, error) {
	query := `
		SELECT ` + closingColumns + `
		FROM accounting_closings
		WHERE company_id = $1 AND status IN ($2, $3)
		ORDER BY closing_date DESC
		LIMIT 1;
	`
	closing, err := scanClosing(r.Pool.QueryRow(ctx, query, companyID, domain.ClosingClosed, domain.ClosingAudited))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no closed period for company %s", apperrors.ErrNotFound, companyID)
		}
		return nil, fmt.Errorf("failed to find latest closing for company %s: %w", companyID, err)
	}
	return closing, nil
}

func (r *PgxClosingRepository) UpdateClosingStatus(ctx context.Context, closingID string, status domain.ClosingStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE accounting_closings
		SET status = $2, last_updated_by = $3, last_updated_at = $4
		WHERE closing_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, closingID, status, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update closing %s: %w", closingID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: closing %s", apperrors.ErrNotFound, closingID)
	}
	return nil
}

func (r *PgxClosingRepository) ListClosings(ctx context.Context, companyID string) ([]domain.AccountingClosing, error) {
	query := `SELECT ` + closingColumns + ` FROM accounting_closings WHERE company_id = $1 ORDER BY closing_date DESC;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list closings for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var closings []domain.AccountingClosing
	for rows.Next() {
		closing, err := scanClosing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan closing row: %w", err)
		}
		closings = append(closings, *closing)
	}
	return closings, rows.Err()
}
