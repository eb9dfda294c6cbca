package models

import (
	"github.com/shopspring/decimal"
)

// DisputeStatus tracks where a ledger entry sits in the dispute lifecycle.
type DisputeStatus string

const (
	StatusNormal      DisputeStatus = "NORMAL"
	StatusDisputed    DisputeStatus = "DISPUTED"
	StatusChargedBack DisputeStatus = "CHARGED_BACK"
)

// LedgerEntry records one successfully applied deposit so later dispute,
// resolve and chargeback records can reference it. Withdrawals are not
// disputable and are never recorded.
//
// Status moves NORMAL -> DISPUTED on dispute, DISPUTED -> NORMAL on resolve,
// DISPUTED -> CHARGED_BACK on chargeback. CHARGED_BACK is terminal.
type LedgerEntry struct {
	Client ClientID
	Amount decimal.Decimal
	Status DisputeStatus
}
