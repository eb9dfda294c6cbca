package services

import (
	"fmt"
	"sync"

	"github.com/paystream/payments-engine/internal/config"
	"github.com/paystream/payments-engine/internal/models"
	"go.uber.org/zap"
)

// PaymentEngine applies transaction records one at a time against the account
// store and the ledger index. Records are applied atomically: a rejected or
// ignored record leaves no partial mutation behind.
//
// The engine itself is single-stream; the mutex only protects snapshot reads
// issued while the serial worker is applying records.
type PaymentEngine struct {
	mu       sync.RWMutex
	accounts *AccountStore
	ledger   *LedgerIndex
	cfg      config.EngineConfig
	logger   *zap.Logger
}

func NewPaymentEngine(cfg config.EngineConfig, logger *zap.Logger) *PaymentEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentEngine{
		accounts: NewAccountStore(),
		ledger:   NewLedgerIndex(),
		cfg:      cfg,
		logger:   logger,
	}
}

// Process applies one transaction record in arrival order. A nil return means
// the record mutated state. Errors classify via IsRejection and IsIgnorable;
// both are non-fatal and the caller moves on to the next record.
func (e *PaymentEngine) Process(tx models.Transaction) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.apply(tx)
	if err == nil {
		return nil
	}

	fields := []zap.Field{
		zap.String("type", string(tx.Type)),
		zap.Uint16("client", uint16(tx.Client)),
		zap.Uint32("tx", uint32(tx.Tx)),
		zap.Error(err),
	}
	switch {
	case IsIgnorable(err):
		e.logger.Debug("skipping transaction reference", fields...)
	case IsRejection(err):
		e.logger.Info("transaction rejected", fields...)
	default:
		e.logger.Error("transaction failed", fields...)
	}
	return err
}

func (e *PaymentEngine) apply(tx models.Transaction) error {
	account := e.accounts.GetOrCreate(tx.Client)

	switch tx.Type {
	case models.TypeDeposit:
		return e.applyDeposit(account, tx)
	case models.TypeWithdrawal:
		return e.applyWithdrawal(account, tx)
	case models.TypeDispute:
		return e.applyDispute(account, tx)
	case models.TypeResolve:
		return e.applyResolve(account, tx)
	case models.TypeChargeback:
		return e.applyChargeback(account, tx)
	default:
		return fmt.Errorf("unknown transaction type %q", tx.Type)
	}
}

func (e *PaymentEngine) applyDeposit(account *models.Account, tx models.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("deposit %d: %w", tx.Tx, ErrInvalidAmount)
	}
	if account.Locked && !e.cfg.AllowLockedDeposits {
		return fmt.Errorf("deposit %d for client %d: %w", tx.Tx, tx.Client, ErrAccountLocked)
	}
	if err := e.ledger.RecordDeposit(tx.Tx, tx.Client, tx.Amount); err != nil {
		return err
	}
	account.Credit(tx.Amount)
	return nil
}

func (e *PaymentEngine) applyWithdrawal(account *models.Account, tx models.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("withdrawal %d: %w", tx.Tx, ErrInvalidAmount)
	}
	if account.Locked {
		return fmt.Errorf("withdrawal %d for client %d: %w", tx.Tx, tx.Client, ErrAccountLocked)
	}
	if account.Available.LessThan(tx.Amount) {
		return fmt.Errorf("withdrawal %d for client %d: %w", tx.Tx, tx.Client, ErrInsufficientFunds)
	}
	account.Debit(tx.Amount)
	return nil
}

func (e *PaymentEngine) applyDispute(account *models.Account, tx models.Transaction) error {
	entry, err := e.lookupReference(tx)
	if err != nil {
		return err
	}
	switch entry.Status {
	case models.StatusDisputed:
		return fmt.Errorf("dispute of tx %d: %w", tx.Tx, ErrAlreadyDisputed)
	case models.StatusChargedBack:
		return fmt.Errorf("dispute of tx %d: %w", tx.Tx, ErrChargedBack)
	}
	account.Hold(entry.Amount)
	entry.Status = models.StatusDisputed
	return nil
}

func (e *PaymentEngine) applyResolve(account *models.Account, tx models.Transaction) error {
	entry, err := e.lookupReference(tx)
	if err != nil {
		return err
	}
	switch entry.Status {
	case models.StatusNormal:
		return fmt.Errorf("resolve of tx %d: %w", tx.Tx, ErrNotDisputed)
	case models.StatusChargedBack:
		return fmt.Errorf("resolve of tx %d: %w", tx.Tx, ErrChargedBack)
	}
	account.Release(entry.Amount)
	entry.Status = models.StatusNormal
	return nil
}

func (e *PaymentEngine) applyChargeback(account *models.Account, tx models.Transaction) error {
	entry, err := e.lookupReference(tx)
	if err != nil {
		return err
	}
	switch entry.Status {
	case models.StatusNormal:
		return fmt.Errorf("chargeback of tx %d: %w", tx.Tx, ErrNotDisputed)
	case models.StatusChargedBack:
		return fmt.Errorf("chargeback of tx %d: %w", tx.Tx, ErrChargedBack)
	}
	account.Chargeback(entry.Amount)
	entry.Status = models.StatusChargedBack
	e.logger.Info("account locked after chargeback",
		zap.Uint16("client", uint16(tx.Client)),
		zap.Uint32("tx", uint32(tx.Tx)),
	)
	return nil
}

func (e *PaymentEngine) lookupReference(tx models.Transaction) (*models.LedgerEntry, error) {
	entry, ok := e.ledger.Lookup(tx.Tx)
	if !ok {
		return nil, fmt.Errorf("%s of tx %d: %w", tx.Type, tx.Tx, ErrTransactionNotFound)
	}
	if entry.Client != tx.Client {
		return nil, fmt.Errorf("%s of tx %d by client %d: %w", tx.Type, tx.Tx, tx.Client, ErrClientMismatch)
	}
	return entry, nil
}

// Accounts returns a snapshot of every account, sorted by client id.
func (e *PaymentEngine) Accounts() []models.AccountSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accounts.Snapshots()
}

// Account returns the snapshot for a single client.
func (e *PaymentEngine) Account(client models.ClientID) (models.AccountSnapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	account, ok := e.accounts.Get(client)
	if !ok {
		return models.AccountSnapshot{}, false
	}
	return account.Snapshot(client), true
}
