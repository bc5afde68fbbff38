package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CompanyRepo     CompanyRepository
	AccountRepo     AccountRepository
	EntryRepo       EntryRepository
	SnapshotRepo    SnapshotRepository
	ClosingRepo     ClosingRepository
	TransactionRepo TransactionRepository
}
