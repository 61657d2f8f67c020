// Package postgres implements the RecordStore on PostgreSQL. It exists for
// deployments that outgrow the flat files; the service is oblivious to
// which backend it was given.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/customer-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	pos      SERIAL PRIMARY KEY,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL,
	email    TEXT NOT NULL,
	phone    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS accounts (
	pos         SERIAL PRIMARY KEY,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL,
	number      TEXT NOT NULL,
	customer_id TEXT NOT NULL,
	balance     NUMERIC NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions (
	pos                  SERIAL PRIMARY KEY,
	id                   TEXT NOT NULL,
	kind                 TEXT NOT NULL,
	amount               NUMERIC NOT NULL,
	sending_account_id   TEXT NOT NULL,
	receiving_account_id TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL
);`

// Store persists the three collections in dedicated tables. Each Save runs
// a delete-then-insert inside one transaction so the full-overwrite store
// contract holds, and the serial pos column preserves record order across
// round trips.
type Store struct {
	db *sql.DB
}

// Open connects with the given DSN and creates the tables if absent.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing connection; the schema must already exist.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) LoadCustomers(ctx context.Context) ([]*models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone FROM customers ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Store) SaveCustomers(ctx context.Context, customers []*models.Customer) error {
	return s.replace(ctx, "customers", func(tx *sql.Tx) error {
		for _, c := range customers {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO customers (id, name, email, phone) VALUES ($1, $2, $3, $4)`,
				c.ID, c.Name, c.Email, c.Phone); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadAccounts(ctx context.Context) ([]*models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, number, customer_id, balance FROM accounts ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		a := &models.Account{}
		var balance string
		if err := rows.Scan(&a.ID, &a.Name, &a.Number, &a.CustomerID, &balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.Balance, err = decimal.NewFromString(balance); err != nil {
			return nil, fmt.Errorf("account %s balance: %w", a.ID, err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) SaveAccounts(ctx context.Context, accounts []*models.Account) error {
	return s.replace(ctx, "accounts", func(tx *sql.Tx) error {
		for _, a := range accounts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO accounts (id, name, number, customer_id, balance) VALUES ($1, $2, $3, $4, $5)`,
				a.ID, a.Name, a.Number, a.CustomerID, a.Balance.String()); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, amount, sending_account_id, receiving_account_id, created_at FROM transactions ORDER BY pos`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		var amount string
		if err := rows.Scan(&t.ID, &t.Kind, &amount, &t.SendingAccountID, &t.ReceivingAccountID, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s amount: %w", t.ID, err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (s *Store) SaveTransactions(ctx context.Context, transactions []*models.Transaction) error {
	return s.replace(ctx, "transactions", func(tx *sql.Tx) error {
		for _, t := range transactions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO transactions (id, kind, amount, sending_account_id, receiving_account_id, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				t.ID, string(t.Kind), t.Amount.String(), t.SendingAccountID, t.ReceivingAccountID, t.Timestamp); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace deletes every row of the table and reinserts the current
// collection inside one transaction.
func (s *Store) replace(ctx context.Context, table string, insert func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace %s: %w", table, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return tx.Commit()
}

var _ interfaces.RecordStore = (*Store)(nil)
