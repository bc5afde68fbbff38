package services

import (
	portsrepo "github.com/finbooks/finbooks/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Company = NewCompanyService(repos.CompanyRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.CompanyRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.CompanyRepo)
	container.Journal = NewJournalService(
		repos.EntryRepo,
		repos.AccountRepo,
		repos.CompanyRepo,
		repos.SnapshotRepo,
		repos.ClosingRepo,
		repos.TransactionRepo,
	)
	container.Balance = NewBalanceService(repos.SnapshotRepo, repos.EntryRepo, repos.AccountRepo, repos.CompanyRepo)
	container.Reporting = NewReportingService(repos.AccountRepo, repos.EntryRepo, repos.CompanyRepo, container.Balance)
	container.Closing = NewClosingService(repos.ClosingRepo, repos.CompanyRepo)

	return container
}
