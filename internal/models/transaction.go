package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies an account holder. Treated as an opaque unsigned key.
type ClientID uint16

// TxID is a globally unique transaction identifier. Dispute, resolve and
// chargeback records reuse the TxID of the deposit they reference.
type TxID uint32

// TransactionType is the closed set of record kinds the engine accepts.
type TransactionType string

const (
	TypeDeposit    TransactionType = "deposit"
	TypeWithdrawal TransactionType = "withdrawal"
	TypeDispute    TransactionType = "dispute"
	TypeResolve    TransactionType = "resolve"
	TypeChargeback TransactionType = "chargeback"
)

// ParseTransactionType maps a raw type field onto a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeDeposit:
		return TypeDeposit, nil
	case TypeWithdrawal:
		return TypeWithdrawal, nil
	case TypeDispute:
		return TypeDispute, nil
	case TypeResolve:
		return TypeResolve, nil
	case TypeChargeback:
		return TypeChargeback, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// HasAmount reports whether records of this type carry their own amount.
// Reference records (dispute/resolve/chargeback) derive their amount from the
// ledger entry they point at.
func (t TransactionType) HasAmount() bool {
	return t == TypeDeposit || t == TypeWithdrawal
}

// Transaction is a single record from the input stream.
type Transaction struct {
	Type   TransactionType `json:"type"`
	Client ClientID        `json:"client"`
	Tx     TxID            `json:"tx"`
	Amount decimal.Decimal `json:"amount"`
}
