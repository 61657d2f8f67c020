package models

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"
)

const accountNumberWidth = 6

// GenerateAccountNumber returns a fixed-width numeric account number. Not
// collision-checked against existing accounts; treated as unique in practice.
func GenerateAccountNumber() string {
	digits := make([]byte, accountNumberWidth)
	for i := range digits {
		digits[i] = byte('0' + rand.IntN(10))
	}
	return string(digits)
}

// Account is a balance-carrying entity. Balance never goes negative, and
// every balance change flows through Deposit, Withdraw or TransferTo, each
// appending exactly one transaction to the local history.
type Account struct {
	ID           string
	Name         string
	Number       string
	CustomerID   string
	Balance      decimal.Decimal
	Transactions []*Transaction
}

// NewAccount creates a zero-balance account owned by customerID.
func NewAccount(name, number, customerID string) *Account {
	return &Account{
		ID:         NewID(),
		Name:       name,
		Number:     number,
		CustomerID: customerID,
		Balance:    decimal.Zero,
	}
}

// Deposit increases the balance and records a deposit dated now. The
// returned transaction has already been appended to the account history.
func (a *Account) Deposit(amount decimal.Decimal) (*Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	a.Balance = a.Balance.Add(amount)
	tx := newTransaction(KindDeposit, amount, a.ID, "")
	a.Transactions = append(a.Transactions, tx)
	return tx, nil
}

// Withdraw decreases the balance and records a withdrawal. Fails without
// touching the account when the amount is non-positive or exceeds the
// balance.
func (a *Account) Withdraw(amount decimal.Decimal) (*Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if amount.Cmp(a.Balance) > 0 {
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount)
	tx := newTransaction(KindWithdrawal, amount, "", a.ID)
	a.Transactions = append(a.Transactions, tx)
	return tx, nil
}

// TransferTo moves amount from a into target. On success exactly one
// transaction record is created and shared by both account histories; on
// failure neither balance changes.
func (a *Account) TransferTo(target *Account, amount decimal.Decimal) (*Transaction, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, fmt.Errorf("%w: transfer of %s", ErrInvalidAmount, amount)
	}
	if amount.Cmp(a.Balance) > 0 {
		return nil, fmt.Errorf("%w: balance %s, requested %s", ErrInsufficientFunds, a.Balance, amount)
	}
	a.Balance = a.Balance.Sub(amount)
	target.Balance = target.Balance.Add(amount)
	tx := newTransaction(KindTransfer, amount, a.ID, target.ID)
	a.Transactions = append(a.Transactions, tx)
	target.Transactions = append(target.Transactions, tx)
	return tx, nil
}
