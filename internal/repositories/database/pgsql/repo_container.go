package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgx-backed repositories over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:     newPgxCompanyRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		EntryRepo:       newPgxEntryRepository(dbPool),
		SnapshotRepo:    newPgxSnapshotRepository(dbPool),
		ClosingRepo:     newPgxClosingRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
	}
}
