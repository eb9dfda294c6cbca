package services

import (
	"sort"

	"github.com/paystream/payments-engine/internal/models"
)

// AccountStore maps client ids to their account state. Accounts are created
// lazily on first reference and never deleted.
type AccountStore struct {
	accounts map[models.ClientID]*models.Account
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[models.ClientID]*models.Account),
	}
}

// GetOrCreate returns the account for client, inserting a zeroed one if the
// client has never been seen.
func (s *AccountStore) GetOrCreate(client models.ClientID) *models.Account {
	account, ok := s.accounts[client]
	if !ok {
		account = models.NewAccount()
		s.accounts[client] = account
	}
	return account
}

// Get returns the account for client if it exists.
func (s *AccountStore) Get(client models.ClientID) (*models.Account, bool) {
	account, ok := s.accounts[client]
	return account, ok
}

// Len returns the number of distinct clients seen so far.
func (s *AccountStore) Len() int {
	return len(s.accounts)
}

// Snapshots returns the state of every account, sorted by client id for
// deterministic output.
func (s *AccountStore) Snapshots() []models.AccountSnapshot {
	snapshots := make([]models.AccountSnapshot, 0, len(s.accounts))
	for client, account := range s.accounts {
		snapshots = append(snapshots, account.Snapshot(client))
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}
