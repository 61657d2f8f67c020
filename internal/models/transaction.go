package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind names the three money movements.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "Deposit"
	KindWithdrawal TransactionKind = "Withdrawal"
	KindTransfer   TransactionKind = "Transfer"
)

// Transaction is an immutable money-movement record. Deposits put the
// affected account in SendingAccountID and leave the receiving side empty
// (the source is external); withdrawals are the inverse; transfers set both.
// No field is ever rewritten once the record exists.
type Transaction struct {
	ID                 string
	Kind               TransactionKind
	Amount             decimal.Decimal
	SendingAccountID   string
	ReceivingAccountID string
	Timestamp          time.Time
}

func newTransaction(kind TransactionKind, amount decimal.Decimal, sendingID, receivingID string) *Transaction {
	return &Transaction{
		ID:                 NewID(),
		Kind:               kind,
		Amount:             amount,
		SendingAccountID:   sendingID,
		ReceivingAccountID: receivingID,
		Timestamp:          time.Now(),
	}
}

// Involves reports whether the account participates as sender or receiver.
func (t *Transaction) Involves(accountID string) bool {
	return accountID != "" && (t.SendingAccountID == accountID || t.ReceivingAccountID == accountID)
}
