package services

import (
	"fmt"

	"github.com/paystream/payments-engine/internal/models"
	"github.com/shopspring/decimal"
)

// LedgerIndex maps transaction ids to the deposits they created, so dispute,
// resolve and chargeback records can find the amount and owner of the
// transaction they reference. Entries are never deleted; a charged back entry
// stays in the index in its terminal state.
type LedgerIndex struct {
	entries map[models.TxID]*models.LedgerEntry
}

func NewLedgerIndex() *LedgerIndex {
	return &LedgerIndex{
		entries: make(map[models.TxID]*models.LedgerEntry),
	}
}

// RecordDeposit inserts a ledger entry for a newly applied deposit. Transaction
// ids are globally unique: a second deposit bearing an existing id is refused
// and the original entry is untouched.
func (ix *LedgerIndex) RecordDeposit(tx models.TxID, client models.ClientID, amount decimal.Decimal) error {
	if _, ok := ix.entries[tx]; ok {
		return fmt.Errorf("tx %d: %w", tx, ErrDuplicateTransaction)
	}
	ix.entries[tx] = &models.LedgerEntry{
		Client: client,
		Amount: amount,
		Status: models.StatusNormal,
	}
	return nil
}

// Lookup returns the ledger entry for tx if one exists.
func (ix *LedgerIndex) Lookup(tx models.TxID) (*models.LedgerEntry, bool) {
	entry, ok := ix.entries[tx]
	return entry, ok
}

// Len returns the number of recorded deposits.
func (ix *LedgerIndex) Len() int {
	return len(ix.entries)
}
