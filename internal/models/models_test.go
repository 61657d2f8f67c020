package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestNewCustomerValidation(t *testing.T) {
	cases := []struct {
		name                   string
		custName, email, phone string
		wantErr                bool
	}{
		{"valid", "Ann", "ann@x.com", "5551234567", false},
		{"formatted phone", "Ann", "ann@x.com", "(555) 123-4567", false},
		{"empty name", "", "ann@x.com", "5551234567", true},
		{"empty email", "Ann", "", "5551234567", true},
		{"bad email", "Ann", "not-an-email", "5551234567", true},
		{"short phone", "Ann", "ann@x.com", "12345", true},
		{"long phone", "Ann", "ann@x.com", "55512345678", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewCustomer(tc.custName, tc.email, tc.phone)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("want ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.ID == "" {
				t.Fatal("customer id should be generated")
			}
		})
	}
}

func TestCustomerSettersLeaveStateOnFailure(t *testing.T) {
	c, err := NewCustomer("Ann", "ann@x.com", "5551234567")
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetEmail("broken"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if c.Email != "ann@x.com" {
		t.Fatalf("email changed on failed set: %q", c.Email)
	}
	if err := c.SetPhone("123"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
	if c.Phone != "5551234567" {
		t.Fatalf("phone changed on failed set: %q", c.Phone)
	}
}

func TestCustomerAccountList(t *testing.T) {
	c, _ := NewCustomer("Ann", "ann@x.com", "5551234567")
	a1 := NewAccount("checking", GenerateAccountNumber(), c.ID)
	a2 := NewAccount("savings", GenerateAccountNumber(), c.ID)
	c.AddAccount(a1)
	c.AddAccount(a2)

	if !c.HasAccounts() || len(c.Accounts) != 2 {
		t.Fatalf("accounts=%d want=2", len(c.Accounts))
	}
	if c.Accounts[0] != a1 || c.Accounts[1] != a2 {
		t.Fatal("account list should preserve insertion order")
	}
	if !c.RemoveAccount(a1.ID) {
		t.Fatal("RemoveAccount should report presence")
	}
	if c.RemoveAccount(a1.ID) {
		t.Fatal("second RemoveAccount should miss")
	}
	if len(c.Accounts) != 1 || c.Accounts[0] != a2 {
		t.Fatalf("unexpected list after removal: %v", c.Accounts)
	}
}

func TestGenerateAccountNumber(t *testing.T) {
	n := GenerateAccountNumber()
	if len(n) != 6 {
		t.Fatalf("number %q should be 6 digits", n)
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			t.Fatalf("number %q contains non-digit", n)
		}
	}
}

func TestDepositAppendsOneTransaction(t *testing.T) {
	a := NewAccount("checking", "123456", "cust-1")
	tx, err := a.Deposit(dec(t, "100.00"))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("balance=%s want=100.00", a.Balance)
	}
	if len(a.Transactions) != 1 || a.Transactions[0] != tx {
		t.Fatalf("history should hold exactly the returned record")
	}
	if tx.Kind != KindDeposit || tx.SendingAccountID != a.ID || tx.ReceivingAccountID != "" {
		t.Fatalf("unexpected record: %+v", tx)
	}
}

func TestDepositRejectsNonPositive(t *testing.T) {
	a := NewAccount("checking", "123456", "cust-1")
	for _, amt := range []string{"0", "-5"} {
		if _, err := a.Deposit(dec(t, amt)); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("deposit %s: want ErrInvalidAmount, got %v", amt, err)
		}
	}
	if !a.Balance.IsZero() || len(a.Transactions) != 0 {
		t.Fatal("failed deposit must not touch the account")
	}
}

func TestWithdraw(t *testing.T) {
	a := NewAccount("checking", "123456", "cust-1")
	a.Deposit(dec(t, "50"))

	if _, err := a.Withdraw(dec(t, "60")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !a.Balance.Equal(dec(t, "50")) || len(a.Transactions) != 1 {
		t.Fatal("failed withdrawal must not touch the account")
	}

	tx, err := a.Withdraw(dec(t, "50"))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Balance.IsZero() {
		t.Fatalf("balance=%s want=0", a.Balance)
	}
	if tx.Kind != KindWithdrawal || tx.ReceivingAccountID != a.ID || tx.SendingAccountID != "" {
		t.Fatalf("unexpected record: %+v", tx)
	}
}

func TestTransferSharesOneRecord(t *testing.T) {
	src := NewAccount("src", "111111", "cust-1")
	dst := NewAccount("dst", "222222", "cust-2")
	src.Deposit(dec(t, "100"))

	tx, err := src.TransferTo(dst, dec(t, "40"))
	if err != nil {
		t.Fatal(err)
	}
	if !src.Balance.Equal(dec(t, "60")) || !dst.Balance.Equal(dec(t, "40")) {
		t.Fatalf("balances src=%s dst=%s want 60/40", src.Balance, dst.Balance)
	}
	if src.Transactions[len(src.Transactions)-1] != tx || dst.Transactions[len(dst.Transactions)-1] != tx {
		t.Fatal("both histories must reference the same record")
	}
	if tx.Kind != KindTransfer || tx.SendingAccountID != src.ID || tx.ReceivingAccountID != dst.ID {
		t.Fatalf("unexpected record: %+v", tx)
	}
}

func TestTransferFailuresLeaveBalances(t *testing.T) {
	src := NewAccount("src", "111111", "cust-1")
	dst := NewAccount("dst", "222222", "cust-2")
	src.Deposit(dec(t, "30"))

	if _, err := src.TransferTo(dst, dec(t, "0")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, err := src.TransferTo(dst, dec(t, "31")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
	if !src.Balance.Equal(dec(t, "30")) || !dst.Balance.IsZero() {
		t.Fatalf("balances changed: src=%s dst=%s", src.Balance, dst.Balance)
	}
	if len(dst.Transactions) != 0 {
		t.Fatal("no record may be created on failure")
	}
}

func TestInvolves(t *testing.T) {
	tx := &Transaction{ID: NewID(), Kind: KindTransfer, SendingAccountID: "a", ReceivingAccountID: "b"}
	if !tx.Involves("a") || !tx.Involves("b") {
		t.Fatal("both participants must match")
	}
	if tx.Involves("c") || tx.Involves("") {
		t.Fatal("non-participants must not match")
	}
}
