package memory

import (
	"context"
	"testing"

	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
)

func TestStoreCopiesRecords(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	c, err := models.NewCustomer("Ann", "ann@x.com", "5551234567")
	if err != nil {
		t.Fatal(err)
	}
	c.AddAccount(models.NewAccount("checking", "123456", c.ID))
	if err := s.SaveCustomers(ctx, []*models.Customer{c}); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's record after save must not leak into the store,
	// and linkage is stripped like the file store does.
	c.Name = "changed"
	loaded, err := s.LoadCustomers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].Name != "Ann" {
		t.Fatalf("store aliased the saved record: %+v", loaded)
	}
	if loaded[0].Accounts != nil {
		t.Fatal("account linkage should not survive persistence")
	}

	loaded[0].Name = "also changed"
	again, _ := s.LoadCustomers(ctx)
	if again[0].Name != "Ann" {
		t.Fatal("store aliased the loaded record")
	}
}

func TestFailSaves(t *testing.T) {
	s := NewStore()
	s.FailSaves = context.DeadlineExceeded
	if err := s.SaveAccounts(context.Background(), nil); err != context.DeadlineExceeded {
		t.Fatalf("want injected error, got %v", err)
	}
}
