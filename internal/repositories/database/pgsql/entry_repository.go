package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	"github.com/finbooks/finbooks/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepository {
	return &PgxEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EntryRepository = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, company_id, entry_date, description, reference, status, reversed_by, reverses, created_at, created_by, last_updated_at, last_updated_by`
const lineColumns = `line_id, entry_id, company_id, account_code, debit, credit, description, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.EntryID,
		&e.CompanyID,
		&e.Date,
		&e.Description,
		&e.Reference,
		&e.Status,
		&e.ReversedBy,
		&e.Reverses,
		&e.CreatedAt,
		&e.CreatedBy,
		&e.LastUpdatedAt,
		&e.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func scanLine(row pgx.Row) (*domain.JournalLine, error) {
	var l domain.JournalLine
	err := row.Scan(
		&l.LineID,
		&l.EntryID,
		&l.CompanyID,
		&l.AccountCode,
		&l.Debit,
		&l.Credit,
		&l.Description,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveEntry inserts the entry and all its lines in one database transaction;
// nothing is persisted when any insert fails.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, entry, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveEntryForTransaction inserts the entry with its lines and marks the
// originating upstream transaction validated, all in one database transaction.
// A concurrent validation makes the UPDATE match zero rows; the whole unit is
// then rolled back and apperrors.ErrConflict returned, so no entry can be
// posted twice for the same transaction.
func (r *PgxEntryRepository) SaveEntryForTransaction(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, transactionID, validatedBy string, validatedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, entry, lines); err != nil {
		return err
	}

	query := `
		UPDATE transactions
		SET is_validated = TRUE, validated_by = $2, validated_at = $3, last_updated_by = $2, last_updated_at = $3
		WHERE transaction_id = $1 AND is_validated = FALSE;
	`
	tag, err := tx.Exec(ctx, query, transactionID, validatedBy, validatedAt)
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s validated: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: transaction %s is already validated", apperrors.ErrConflict, transactionID)
	}
	return r.Commit(ctx, tx)
}

// insertEntry writes an entry and its lines inside the caller's transaction.
func insertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) error {
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, entryQuery,
		entry.EntryID,
		entry.CompanyID,
		entry.Date,
		entry.Description,
		entry.Reference,
		entry.Status,
		entry.ReversedBy,
		entry.Reverses,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: entry %s already exists", apperrors.ErrDuplicate, entry.EntryID)
		}
		return fmt.Errorf("failed to insert entry %s: %w", entry.EntryID, err)
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(lineQuery,
			line.LineID,
			line.EntryID,
			line.CompanyID,
			line.AccountCode,
			line.Debit,
			line.Credit,
			line.Description,
			line.CreatedAt,
			line.CreatedBy,
			line.LastUpdatedAt,
			line.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert lines for entry %s: %w", entry.EntryID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close line batch for entry %s: %w", entry.EntryID, err)
	}
	return nil
}

func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	entry, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	return entry, nil
}

func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY account_code;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		lines = append(lines, *line)
	}
	return lines, rows.Err()
}

// ListEntries pages through a company's entries, newest first, keyed on
// (entry_date, created_at).
func (r *PgxEntryRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, entryDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY entry_date DESC, created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		encoded := pagination.EncodeToken(last.Date, last.CreatedAt)
		token = &encoded
	}
	return entries, token, nil
}

// ListLinesByAccount pages through an account's lines joined on their entry
// date, newest first.
func (r *PgxEntryRepository) ListLinesByAccount(ctx context.Context, companyID, accountCode string, limit int, nextToken *string) ([]domain.JournalLine, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT l.line_id, l.entry_id, l.company_id, l.account_code, l.debit, l.credit, l.description,
		       l.created_at, l.created_by, l.last_updated_at, l.last_updated_by, e.entry_date
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.company_id = $1 AND l.account_code = $2
	`
	args := []any{companyID, accountCode}

	if nextToken != nil && *nextToken != "" {
		entryDate, createdAt, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (e.entry_date, l.created_at) < ($3, $4)`
		args = append(args, entryDate, createdAt)
	}

	query += fmt.Sprintf(` ORDER BY e.entry_date DESC, l.created_at DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list lines for account %s: %w", accountCode, err)
	}
	defer rows.Close()

	var lines []domain.JournalLine
	var entryDates []time.Time
	for rows.Next() {
		var l domain.JournalLine
		var entryDate time.Time
		err := rows.Scan(
			&l.LineID, &l.EntryID, &l.CompanyID, &l.AccountCode, &l.Debit, &l.Credit, &l.Description,
			&l.CreatedAt, &l.CreatedBy, &l.LastUpdatedAt, &l.LastUpdatedBy, &entryDate,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan line row: %w", err)
		}
		lines = append(lines, l)
		entryDates = append(entryDates, entryDate)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	lines, token := trimLinesPage(lines, entryDates, limit)
	return lines, token, nil
}

// trimLinesPage applies the limit+1 pattern to a scanned page of lines: the
// extra row only signals that another page exists. The next-page token pairs
// the entry date and created_at of the last row actually returned, so the
// keyset predicate resumes exactly after it.
func trimLinesPage(lines []domain.JournalLine, entryDates []time.Time, limit int) ([]domain.JournalLine, *string) {
	if len(lines) <= limit {
		return lines, nil
	}
	last := limit - 1
	encoded := pagination.EncodeToken(entryDates[last], lines[last].CreatedAt)
	return lines[:limit], &encoded
}

// MarkReversed flips the entry to REVERSED and links the offsetting entry.
// Guards against double reversal with a status predicate.
func (r *PgxEntryRepository) MarkReversed(ctx context.Context, entryID, reversedByEntryID, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, reversed_by = $3, last_updated_by = $4, last_updated_at = $5
		WHERE entry_id = $1 AND status = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, domain.Reversed, reversedByEntryID, updatedBy, updatedAt, domain.Posted)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not in POSTED status", apperrors.ErrConflict, entryID)
	}
	return nil
}

// SumLines aggregates debit and credit totals for one account over entries
// dated after `after` (nil = beginning of time) and at or before `until`.
func (r *PgxEntryRepository) SumLines(ctx context.Context, companyID, accountCode string, after *time.Time, until time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.company_id = $1 AND l.account_code = $2 AND e.entry_date <= $3
	`
	args := []any{companyID, accountCode, until}
	if after != nil {
		query += ` AND e.entry_date > $4`
		args = append(args, *after)
	}

	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum lines for account %s: %w", accountCode, err)
	}
	return debit, credit, nil
}

// SumLinesInWindow aggregates totals across several accounts for entries dated
// within [start, end].
func (r *PgxEntryRepository) SumLinesInWindow(ctx context.Context, companyID string, accountCodes []string, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.company_id = $1 AND l.account_code = ANY($2) AND e.entry_date >= $3 AND e.entry_date <= $4;
	`
	var debit, credit decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID, accountCodes, start, end).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum window for company %s: %w", companyID, err)
	}
	return debit, credit, nil
}

// AccountsWithLines returns the codes of accounts appearing on at least one
// journal line of the company, ordered by code.
func (r *PgxEntryRepository) AccountsWithLines(ctx context.Context, companyID string) ([]string, error) {
	query := `SELECT DISTINCT account_code FROM journal_entry_lines WHERE company_id = $1 ORDER BY account_code;`

	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts with lines for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("failed to scan account code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// HasLinesAfter reports whether the account has lines on entries dated
// strictly after the given time.
func (r *PgxEntryRepository) HasLinesAfter(ctx context.Context, companyID, accountCode string, after time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.entry_id
			WHERE l.company_id = $1 AND l.account_code = $2 AND e.entry_date > $3
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, accountCode, after).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check activity for account %s: %w", accountCode, err)
	}
	return exists, nil
}
