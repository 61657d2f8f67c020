// Package file implements the durable RecordStore over flat CSV files, one
// self-describing record per line, human-inspectable. The ledger service is
// the sole reader and writer of these files.
package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/customer-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
)

const (
	customersFile    = "customers.csv"
	accountsFile     = "accounts.csv"
	transactionsFile = "transactions.csv"
)

// Store reads and writes one CSV file per entity kind under a data
// directory. A missing file loads as an empty dataset. Malformed rows are
// skipped with a warning rather than failing the load; the same discipline
// applies to all three kinds. Saves replace the whole file through a
// temp-file rename so a crash mid-write never leaves a truncated file
// behind.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates the data directory if needed.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readRows returns every well-formed CSV row of the file. Missing file
// yields no rows and no error. Rows CSV itself cannot parse are skipped.
func (s *Store) readRows(name string) ([][]string, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			s.logger.Warn("skipping malformed row", "file", name, "line", parseErr.Line, "error", parseErr.Err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rows = append(rows, row)
	}
}

// writeRows replaces the file content atomically via a temp file + rename.
func (s *Store) writeRows(name string, rows [][]string) error {
	target := s.path(name)
	tmp := target + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// LoadCustomers reads customer records in file order. Fields: id, name,
// email, phone. Rows failing field validation are skipped.
func (s *Store) LoadCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := s.readRows(customersFile)
	if err != nil {
		return nil, err
	}
	var customers []*models.Customer
	for _, row := range rows {
		if len(row) < 4 || row[0] == "" {
			s.logger.Warn("skipping short customer row", "file", customersFile, "fields", len(row))
			continue
		}
		c := &models.Customer{ID: row[0]}
		if err := c.SetName(row[1]); err != nil {
			s.logger.Warn("skipping customer row", "id", row[0], "error", err)
			continue
		}
		if err := c.SetEmail(row[2]); err != nil {
			s.logger.Warn("skipping customer row", "id", row[0], "error", err)
			continue
		}
		if err := c.SetPhone(row[3]); err != nil {
			s.logger.Warn("skipping customer row", "id", row[0], "error", err)
			continue
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// SaveCustomers overwrites the customer file with the given records.
func (s *Store) SaveCustomers(ctx context.Context, customers []*models.Customer) error {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.ID, c.Name, c.Email, c.Phone})
	}
	return s.writeRows(customersFile, rows)
}

// LoadAccounts reads account records in file order. Fields: id, name,
// number, customer id, balance. Rows with an unparsable or negative balance
// are skipped.
func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.readRows(accountsFile)
	if err != nil {
		return nil, err
	}
	var accounts []*models.Account
	for _, row := range rows {
		if len(row) < 5 || row[0] == "" {
			s.logger.Warn("skipping short account row", "file", accountsFile, "fields", len(row))
			continue
		}
		balance, err := decimal.NewFromString(row[4])
		if err != nil || balance.IsNegative() {
			s.logger.Warn("skipping account row", "id", row[0], "balance", row[4])
			continue
		}
		accounts = append(accounts, &models.Account{
			ID:         row[0],
			Name:       row[1],
			Number:     row[2],
			CustomerID: row[3],
			Balance:    balance,
		})
	}
	return accounts, nil
}

// SaveAccounts overwrites the account file with the given records. The
// per-account transaction history is not serialized here; it is rebuilt
// from the transaction file on load.
func (s *Store) SaveAccounts(ctx context.Context, accounts []*models.Account) error {
	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.ID, a.Name, a.Number, a.CustomerID, a.Balance.String()})
	}
	return s.writeRows(accountsFile, rows)
}

// LoadTransactions reads transaction records in file order. Fields: id,
// kind, amount, sending account id, receiving account id, timestamp
// (RFC 3339). Rows with an unparsable timestamp or a non-positive amount
// are skipped.
func (s *Store) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := s.readRows(transactionsFile)
	if err != nil {
		return nil, err
	}
	var transactions []*models.Transaction
	for _, row := range rows {
		if len(row) < 6 || row[0] == "" {
			s.logger.Warn("skipping short transaction row", "file", transactionsFile, "fields", len(row))
			continue
		}
		amount, err := decimal.NewFromString(row[2])
		if err != nil || amount.Cmp(decimal.Zero) <= 0 {
			s.logger.Warn("skipping transaction row", "id", row[0], "amount", row[2])
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, row[5])
		if err != nil {
			s.logger.Warn("skipping transaction row", "id", row[0], "timestamp", row[5])
			continue
		}
		transactions = append(transactions, &models.Transaction{
			ID:                 row[0],
			Kind:               models.TransactionKind(row[1]),
			Amount:             amount,
			SendingAccountID:   row[3],
			ReceivingAccountID: row[4],
			Timestamp:          ts,
		})
	}
	return transactions, nil
}

// SaveTransactions overwrites the transaction file with the given records.
func (s *Store) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	rows := make([][]string, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, []string{
			t.ID,
			string(t.Kind),
			t.Amount.String(),
			t.SendingAccountID,
			t.ReceivingAccountID,
			t.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return s.writeRows(transactionsFile, rows)
}

var _ interfaces.RecordStore = (*Store)(nil)
