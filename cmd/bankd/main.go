// Command bankd wires a storage backend and optional event publisher into
// the ledger service and exposes it through a line-based console. All
// business rules live behind the service's public operations; this layer
// only parses input and prints results.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/customer-ledger-service/internal/config"
	"github.com/sheikh-saqib/customer-ledger-service/internal/events/kafka"
	"github.com/sheikh-saqib/customer-ledger-service/internal/interfaces"
	"github.com/sheikh-saqib/customer-ledger-service/internal/ledger"
	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
	"github.com/sheikh-saqib/customer-ledger-service/internal/storage/file"
	"github.com/sheikh-saqib/customer-ledger-service/internal/storage/memory"
	"github.com/sheikh-saqib/customer-ledger-service/internal/storage/postgres"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()

	store, err := buildStore(cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		defer p.Close()
		publisher = p
		logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	svc := ledger.New(store, publisher, logger)
	logger.Info("ledger loaded",
		"backend", cfg.StorageBackend,
		"customers", len(svc.Customers()),
		"accounts", len(svc.Accounts()),
		"transactions", len(svc.Transactions()),
	)

	runConsole(svc)
}

func buildStore(cfg config.Config, logger *slog.Logger) (interfaces.RecordStore, error) {
	switch cfg.StorageBackend {
	case "file":
		return file.NewStore(cfg.DataDir, logger)
	case "postgres":
		return postgres.Open(cfg.PostgresDSN)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

const consoleHelp = `commands:
  customers                                 list customers
  add-customer <name> <email> <phone>       create a customer
  delete-customer <customer-id>             delete a customer without accounts
  accounts                                  list all accounts
  add-account <customer-id> <name>          open an account
  delete-account <customer-id> <account-id> close an account
  deposit <account-id> <amount>             deposit into an account
  withdraw <account-id> <amount>            withdraw from an account
  transfer <from-id> <to-id> <amount>       move money between accounts
  history <account-id>                      list an account's transactions
  quit`

func runConsole(svc *ledger.Service) {
	ctx := context.Background()
	fmt.Println(consoleHelp)
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return
		}
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		cmd, args := args[0], args[1:]
		switch {
		case cmd == "quit" || cmd == "exit":
			return
		case cmd == "help":
			fmt.Println(consoleHelp)
		case cmd == "customers":
			for _, c := range svc.Customers() {
				fmt.Printf("%s  %s  %s  %s  accounts=%d\n", c.ID, c.Name, c.Email, c.Phone, len(c.Accounts))
			}
		case cmd == "add-customer" && len(args) == 3:
			c, err := models.NewCustomer(args[0], args[1], args[2])
			if err == nil {
				err = svc.AddCustomer(ctx, c)
			}
			report(err, func() { fmt.Printf("created customer %s\n", c.ID) })
		case cmd == "delete-customer" && len(args) == 1:
			report(svc.DeleteCustomer(ctx, args[0]), func() { fmt.Println("deleted") })
		case cmd == "accounts":
			for _, a := range svc.Accounts() {
				fmt.Printf("%s  %s  #%s  owner=%s  balance=%s\n", a.ID, a.Name, a.Number, a.CustomerID, a.Balance)
			}
		case cmd == "add-account" && len(args) == 2:
			a, err := svc.AddAccount(ctx, args[0], args[1])
			report(err, func() { fmt.Printf("opened account %s #%s\n", a.ID, a.Number) })
		case cmd == "delete-account" && len(args) == 2:
			report(svc.DeleteAccount(ctx, args[0], args[1]), func() { fmt.Println("closed") })
		case cmd == "deposit" && len(args) == 2:
			withAmount(args[1], func(amt decimal.Decimal) error { return svc.Deposit(ctx, args[0], amt) })
		case cmd == "withdraw" && len(args) == 2:
			withAmount(args[1], func(amt decimal.Decimal) error { return svc.Withdraw(ctx, args[0], amt) })
		case cmd == "transfer" && len(args) == 3:
			withAmount(args[2], func(amt decimal.Decimal) error { return svc.Transfer(ctx, args[0], args[1], amt) })
		case cmd == "history" && len(args) == 1:
			for _, t := range svc.TransactionsByAccount(args[0]) {
				fmt.Printf("%s  %-10s  %8s  %s -> %s  %s\n",
					t.ID, t.Kind, t.Amount, orDash(t.SendingAccountID), orDash(t.ReceivingAccountID),
					t.Timestamp.Format("2006-01-02 15:04:05"))
			}
		default:
			fmt.Println("unknown command; try help")
		}
	}
}

func withAmount(raw string, op func(decimal.Decimal) error) {
	amt, err := decimal.NewFromString(raw)
	if err != nil {
		fmt.Printf("invalid amount %q\n", raw)
		return
	}
	report(op(amt), func() { fmt.Println("ok") })
}

func report(err error, onSuccess func()) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	onSuccess()
}

func orDash(id string) string {
	if id == "" {
		return "-"
	}
	return id
}
