package models

import (
	"github.com/shopspring/decimal"
)

// Account holds the balances for one client. Total is never stored; it is
// always derived from Available and Held.
type Account struct {
	Available decimal.Decimal
	Held      decimal.Decimal
	Locked    bool
}

// NewAccount returns a zeroed, unlocked account.
func NewAccount() *Account {
	return &Account{
		Available: decimal.Zero,
		Held:      decimal.Zero,
	}
}

// Total is the sum of available and held funds.
func (a *Account) Total() decimal.Decimal {
	return a.Available.Add(a.Held)
}

// Credit adds amount to the available balance.
func (a *Account) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
}

// Debit removes amount from the available balance. The caller checks
// sufficiency first.
func (a *Account) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
}

// Hold moves amount from available into held while a dispute is open.
// Total is unchanged.
func (a *Account) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
}

// Release moves amount back from held into available when a dispute resolves.
// Total is unchanged.
func (a *Account) Release(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Available = a.Available.Add(amount)
}

// Chargeback withdraws amount from held and locks the account. Total drops by
// amount; the funds leave the account permanently.
func (a *Account) Chargeback(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.Locked = true
}

// AccountSnapshot is the externally visible state of one account.
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// Snapshot captures the account state for a client at emission time.
func (a *Account) Snapshot(client ClientID) AccountSnapshot {
	return AccountSnapshot{
		Client:    client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total(),
		Locked:    a.Locked,
	}
}
