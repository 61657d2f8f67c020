// Package ledger owns the in-memory working set of customers, accounts and
// transactions and keeps it synchronized with a RecordStore. Every read and
// mutation is serialized by one mutex: transfers are a coordinated
// read-then-write across two accounts and must be observed atomically.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/customer-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models/events"
)

var (
	// ErrNotFound reports a customer or account lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrSameAccount reports a transfer from an account to itself.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrCustomerHasAccounts reports a delete attempt on a customer that
	// still owns accounts. Accounts are never deleted as a side effect.
	ErrCustomerHasAccounts = errors.New("customer still has accounts")

	// ErrPersistence reports an I/O failure on load or save. When it
	// follows a successful mutation, the in-memory change stands.
	ErrPersistence = errors.New("persistence failure")
)

const topicTransactionCompleted = "transaction_completed"

// Service is the ledger and account service. The flat account list includes
// orphans (accounts whose owner is missing from the customer file); every
// non-orphaned account is also reachable through exactly one customer's
// owned list.
type Service struct {
	mu        sync.Mutex
	store     interfaces.RecordStore
	publisher interfaces.EventPublisher
	logger    *slog.Logger

	customers    []*models.Customer
	accounts     []*models.Account
	transactions []*models.Transaction
	txnIDs       map[string]struct{}
}

// New constructs the service and loads the working set from the store.
// A load failure degrades to an empty working set and is logged; startup
// never blocks on a bad backing file. publisher may be nil.
func New(store interfaces.RecordStore, publisher interfaces.EventPublisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:     store,
		publisher: publisher,
		logger:    logger,
		txnIDs:    make(map[string]struct{}),
	}
	if err := s.loadAll(context.Background()); err != nil {
		s.logger.Error("load failed, starting with an empty ledger", "error", err)
		s.customers, s.accounts, s.transactions = nil, nil, nil
		s.txnIDs = make(map[string]struct{})
	}
	return s
}

// loadAll reads the three collections and reconciles them: transactions are
// deduplicated by id (first occurrence wins), accounts are re-attached to
// their owners, and each account's local history is rebuilt from the global
// transaction list in stored order.
func (s *Service) loadAll(ctx context.Context) error {
	customers, err := s.store.LoadCustomers(ctx)
	if err != nil {
		return fmt.Errorf("%w: load customers: %v", ErrPersistence, err)
	}
	accounts, err := s.store.LoadAccounts(ctx)
	if err != nil {
		return fmt.Errorf("%w: load accounts: %v", ErrPersistence, err)
	}
	loaded, err := s.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("%w: load transactions: %v", ErrPersistence, err)
	}

	txnIDs := make(map[string]struct{}, len(loaded))
	var transactions []*models.Transaction
	for _, t := range loaded {
		if _, dup := txnIDs[t.ID]; dup {
			s.logger.Warn("dropping duplicate transaction", "id", t.ID)
			continue
		}
		txnIDs[t.ID] = struct{}{}
		transactions = append(transactions, t)
	}

	owners := make(map[string]*models.Customer, len(customers))
	for _, c := range customers {
		owners[c.ID] = c
	}
	index := make(map[string]*models.Account, len(accounts))
	for _, a := range accounts {
		index[a.ID] = a
		if owner, ok := owners[a.CustomerID]; ok {
			owner.AddAccount(a)
		} else {
			s.logger.Warn("account owner missing, keeping account orphaned",
				"account_id", a.ID, "customer_id", a.CustomerID)
		}
	}

	for _, t := range transactions {
		if a, ok := index[t.SendingAccountID]; ok {
			a.Transactions = append(a.Transactions, t)
		}
		if t.ReceivingAccountID != t.SendingAccountID {
			if a, ok := index[t.ReceivingAccountID]; ok {
				a.Transactions = append(a.Transactions, t)
			}
		}
	}

	s.customers = customers
	s.accounts = accounts
	s.transactions = transactions
	s.txnIDs = txnIDs
	return nil
}

// flush persists the entire working set synchronously. Called with the
// mutex held after every successful mutation.
func (s *Service) flush(ctx context.Context) error {
	if err := s.store.SaveCustomers(ctx, s.customers); err != nil {
		return fmt.Errorf("%w: save customers: %v", ErrPersistence, err)
	}
	if err := s.store.SaveAccounts(ctx, s.accounts); err != nil {
		return fmt.Errorf("%w: save accounts: %v", ErrPersistence, err)
	}
	if err := s.store.SaveTransactions(ctx, s.transactions); err != nil {
		return fmt.Errorf("%w: save transactions: %v", ErrPersistence, err)
	}
	return nil
}

// flushAfterMutation reports a save failure without rolling back the
// already-applied in-memory change. Known risk, not silently hidden.
func (s *Service) flushAfterMutation(ctx context.Context, op string) error {
	if err := s.flush(ctx); err != nil {
		s.logger.Error("save failed after mutation, in-memory state retained", "op", op, "error", err)
		return err
	}
	return nil
}

// SaveAll persists the current working set without mutating it.
func (s *Service) SaveAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flush(ctx)
}

// findCustomer and findAccount are linear scans; the account scan walks
// every customer's owned list, so orphaned accounts are not reachable for
// money movement.
func (s *Service) findCustomer(id string) *models.Customer {
	for _, c := range s.customers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Service) findAccount(id string) *models.Account {
	for _, c := range s.customers {
		for _, a := range c.Accounts {
			if a.ID == id {
				return a
			}
		}
	}
	return nil
}

// Customers returns the customer list in insertion order.
func (s *Service) Customers() []*models.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// Accounts returns the flat account list, orphans included.
func (s *Service) Accounts() []*models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// FindCustomerByID returns ErrNotFound on a miss.
func (s *Service) FindCustomerByID(id string) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCustomer(id)
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	return c, nil
}

// FindAccountByID returns ErrNotFound on a miss.
func (s *Service) FindAccountByID(id string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccount(id)
	if a == nil {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return a, nil
}

// FindAccountByNumber locates an account by its fixed-width number.
func (s *Service) FindAccountByNumber(number string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		for _, a := range c.Accounts {
			if a.Number == number {
				return a, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: account number %s", ErrNotFound, number)
}

// AddCustomer appends the customer and persists.
func (s *Service) AddCustomer(ctx context.Context, c *models.Customer) error {
	if c == nil {
		return fmt.Errorf("%w: nil customer", models.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, c)
	return s.flushAfterMutation(ctx, "add_customer")
}

// UpdateCustomer applies name, email and phone. Validation runs against a
// staged copy first, so a rejected update leaves the customer untouched.
func (s *Service) UpdateCustomer(ctx context.Context, id, name, email, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCustomer(id)
	if c == nil {
		return fmt.Errorf("%w: customer %s", ErrNotFound, id)
	}
	staged := *c
	if err := staged.SetName(name); err != nil {
		return err
	}
	if err := staged.SetEmail(email); err != nil {
		return err
	}
	if err := staged.SetPhone(phone); err != nil {
		return err
	}
	c.Name, c.Email, c.Phone = staged.Name, staged.Email, staged.Phone
	return s.flushAfterMutation(ctx, "update_customer")
}

// DeleteCustomer removes a customer with no remaining accounts. A customer
// that still owns accounts is rejected; accounts are never cascaded.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.customers {
		if c.ID != id {
			continue
		}
		if c.HasAccounts() {
			return fmt.Errorf("%w: customer %s", ErrCustomerHasAccounts, id)
		}
		s.customers = append(s.customers[:i], s.customers[i+1:]...)
		return s.flushAfterMutation(ctx, "delete_customer")
	}
	return fmt.Errorf("%w: customer %s", ErrNotFound, id)
}

// AddAccount creates a zero-balance account for the customer, generating
// its number, and appends it to both the flat list and the owner's list.
func (s *Service) AddAccount(ctx context.Context, customerID, name string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCustomer(customerID)
	if c == nil {
		return nil, fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}
	a := models.NewAccount(name, models.GenerateAccountNumber(), customerID)
	s.accounts = append(s.accounts, a)
	c.AddAccount(a)
	if err := s.flushAfterMutation(ctx, "add_account"); err != nil {
		return a, err
	}
	return a, nil
}

// DeleteAccount removes the account from both lists. The account must
// belong to the stated customer. Its transactions remain in the global
// list; transactions are never deleted.
func (s *Service) DeleteAccount(ctx context.Context, customerID, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findCustomer(customerID)
	if c == nil {
		return fmt.Errorf("%w: customer %s", ErrNotFound, customerID)
	}
	if !c.RemoveAccount(accountID) {
		return fmt.Errorf("%w: account %s for customer %s", ErrNotFound, accountID, customerID)
	}
	for i, a := range s.accounts {
		if a.ID == accountID {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			break
		}
	}
	return s.flushAfterMutation(ctx, "delete_account")
}

// Deposit adds amount to the account and records one deposit transaction.
func (s *Service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccount(accountID)
	if a == nil {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	tx, err := a.Deposit(amount)
	if err != nil {
		return err
	}
	s.appendTransaction(tx)
	if err := s.flushAfterMutation(ctx, "deposit"); err != nil {
		return err
	}
	s.publish(tx)
	return nil
}

// Withdraw subtracts amount from the account and records one withdrawal.
func (s *Service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.findAccount(accountID)
	if a == nil {
		return fmt.Errorf("%w: account %s", ErrNotFound, accountID)
	}
	tx, err := a.Withdraw(amount)
	if err != nil {
		return err
	}
	s.appendTransaction(tx)
	if err := s.flushAfterMutation(ctx, "withdraw"); err != nil {
		return err
	}
	s.publish(tx)
	return nil
}

// Transfer moves amount between two distinct accounts. The single shared
// transaction record lands in both account histories and exactly once in
// the global list. On any failure before the entity mutation, nothing
// changes.
func (s *Service) Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) error {
	if fromID == toID {
		return fmt.Errorf("%w: %s", ErrSameAccount, fromID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.findAccount(fromID)
	if from == nil {
		return fmt.Errorf("%w: sending account %s", ErrNotFound, fromID)
	}
	to := s.findAccount(toID)
	if to == nil {
		return fmt.Errorf("%w: receiving account %s", ErrNotFound, toID)
	}
	tx, err := from.TransferTo(to, amount)
	if err != nil {
		return err
	}
	s.appendTransaction(tx)
	if err := s.flushAfterMutation(ctx, "transfer"); err != nil {
		return err
	}
	s.publish(tx)
	return nil
}

// appendTransaction adds a freshly created record to the global list.
func (s *Service) appendTransaction(tx *models.Transaction) {
	if _, dup := s.txnIDs[tx.ID]; dup {
		return
	}
	s.txnIDs[tx.ID] = struct{}{}
	s.transactions = append(s.transactions, tx)
}

func (s *Service) publish(tx *models.Transaction) {
	if s.publisher == nil {
		return
	}
	event := events.TransactionCompleted{
		TransactionID: tx.ID,
		Kind:          string(tx.Kind),
		FromAccount:   tx.SendingAccountID,
		ToAccount:     tx.ReceivingAccountID,
		Amount:        tx.Amount,
		OccurredAt:    tx.Timestamp,
	}
	if err := s.publisher.Publish(topicTransactionCompleted, event); err != nil {
		s.logger.Error("event publish failed", "transaction_id", tx.ID, "error", err)
	}
}

// Transactions returns the global transaction list in stored order.
func (s *Service) Transactions() []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// TransactionsByAccount returns every transaction where the account
// participates as sender or receiver, preserving stored order. Callers
// sort by timestamp if records were loaded out of order.
func (s *Service) TransactionsByAccount(accountID string) []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, t := range s.transactions {
		if t.Involves(accountID) {
			out = append(out, t)
		}
	}
	return out
}

// TransactionsByDateRange returns transactions strictly between from and to.
func (s *Service) TransactionsByDateRange(from, to time.Time) []*models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, t := range s.transactions {
		if t.Timestamp.After(from) && t.Timestamp.Before(to) {
			out = append(out, t)
		}
	}
	return out
}
