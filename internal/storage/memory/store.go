// Package memory implements an in-memory RecordStore. It backs the service
// tests and ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"github.com/sheikh-saqib/customer-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
)

// Store keeps flat record copies per entity kind, guarded by a mutex. Like
// the file store it persists records only: linkage fields such as a
// customer's account list are stripped on save and rebuilt by the ledger on
// load.
type Store struct {
	mu           sync.Mutex
	customers    []*models.Customer
	accounts     []*models.Account
	transactions []*models.Transaction

	// FailSaves makes every Save return this error; tests use it to
	// exercise the save-failure-after-mutation path.
	FailSaves error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

func (s *Store) LoadCustomers(ctx context.Context) ([]*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		cp := *c
		cp.Accounts = nil
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) SaveCustomers(ctx context.Context, customers []*models.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	s.customers = s.customers[:0]
	for _, c := range customers {
		cp := *c
		cp.Accounts = nil
		s.customers = append(s.customers, &cp)
	}
	return nil
}

func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		cp := *a
		cp.Transactions = nil
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) SaveAccounts(ctx context.Context, accounts []*models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	s.accounts = s.accounts[:0]
	for _, a := range accounts {
		cp := *a
		cp.Transactions = nil
		s.accounts = append(s.accounts, &cp)
	}
	return nil
}

func (s *Store) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSaves != nil {
		return s.FailSaves
	}
	s.transactions = s.transactions[:0]
	for _, t := range transactions {
		cp := *t
		s.transactions = append(s.transactions, &cp)
	}
	return nil
}

// Seed installs records directly, ignoring FailSaves, so tests can stage a
// dataset before constructing the service.
func (s *Store) Seed(customers []*models.Customer, accounts []*models.Account, transactions []*models.Transaction) {
	failSaves := s.FailSaves
	s.FailSaves = nil
	_ = s.SaveCustomers(context.Background(), customers)
	_ = s.SaveAccounts(context.Background(), accounts)
	_ = s.SaveTransactions(context.Background(), transactions)
	s.FailSaves = failSaves
}

var _ interfaces.RecordStore = (*Store)(nil)
