package interfaces

import (
	"context"

	"github.com/sheikh-saqib/customer-ledger-service/internal/models"
)

// RecordStore persists the three entity collections. Implementations store
// flat records only: a customer's account list and an account's transaction
// history are not serialized, the ledger rebuilds both linkages on load.
//
// Load methods treat a missing backing dataset as empty rather than an
// error. Save methods fully replace the stored collection with the given
// one; there is no incremental append. Implementations must not retain the
// passed slices.
type RecordStore interface {
	LoadCustomers(ctx context.Context) ([]*models.Customer, error)
	SaveCustomers(ctx context.Context, customers []*models.Customer) error

	LoadAccounts(ctx context.Context) ([]*models.Account, error)
	SaveAccounts(ctx context.Context, accounts []*models.Account) error

	LoadTransactions(ctx context.Context) ([]*models.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []*models.Transaction) error
}
