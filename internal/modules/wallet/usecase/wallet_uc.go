// Package usecase implements the wallet (ledger) business logic.
package usecase

import (
	"context"
	"fmt"

	"github.com/9yuq/nexus/internal/modules/wallet/domain"
	"github.com/9yuq/nexus/pkg/logger"
	"github.com/google/uuid"
)

// WalletUseCase owns all balance mutation
type WalletUseCase struct {
	accountRepo domain.AccountRepository
	txRepo      domain.TransactionRepository
}

// NewWalletUseCase creates a new wallet use case
func NewWalletUseCase(accountRepo domain.AccountRepository, txRepo domain.TransactionRepository) *WalletUseCase {
	return &WalletUseCase{
		accountRepo: accountRepo,
		txRepo:      txRepo,
	}
}

// OpenAccount creates the ledger account for a new user with the starting
// balance (cents).
func (uc *WalletUseCase) OpenAccount(ctx context.Context, userID int64, initialBalance int64) error {
	account := &domain.Account{
		UserID:  userID,
		Balance: initialBalance,
	}
	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return fmt.Errorf("failed to open account: %w", err)
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("balance", initialBalance).
		Msg("Account opened")
	return nil
}

// GetAccount returns the account for a user
func (uc *WalletUseCase) GetAccount(ctx context.Context, userID int64) (*domain.Account, error) {
	return uc.accountRepo.Get(ctx, userID)
}

// Deposit credits the account and appends a transaction record
func (uc *WalletUseCase) Deposit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	newBalance, err := uc.accountRepo.Credit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	if err := uc.recordTransaction(ctx, userID, domain.TransactionTypeDeposit, amount); err != nil {
		// Balance already moved; the record is the casualty. Surface loudly
		// but do not unwind the credit.
		logger.Error(ctx).Err(err).Int64("user_id", userID).Msg("Deposit recorded balance but not transaction")
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("amount", amount).
		Int64("new_balance", newBalance).
		Msg("Deposit completed")
	return newBalance, nil
}

// Withdraw debits the account iff the balance covers it and appends a
// transaction record
func (uc *WalletUseCase) Withdraw(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	newBalance, err := uc.accountRepo.Debit(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	if err := uc.recordTransaction(ctx, userID, domain.TransactionTypeWithdraw, amount); err != nil {
		logger.Error(ctx).Err(err).Int64("user_id", userID).Msg("Withdraw recorded balance but not transaction")
	}

	logger.Info(ctx).
		Int64("user_id", userID).
		Int64("amount", amount).
		Int64("new_balance", newBalance).
		Msg("Withdraw completed")
	return newBalance, nil
}

// ApplyBet atomically settles a bet against the ledger: debit stake, credit
// payout, accumulate wagering. Never partially applies.
func (uc *WalletUseCase) ApplyBet(ctx context.Context, userID int64, stake, payout int64) (int64, error) {
	if stake <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if payout < 0 {
		return 0, domain.ErrInvalidAmount
	}
	return uc.accountRepo.ApplyBet(ctx, userID, stake, payout)
}

// Debit takes a game stake from the account, counting it toward the
// wagering totals. Used by games that hold the stake until the round
// resolves. Fails with ErrInsufficientBalance without mutation when the
// balance does not cover the stake.
func (uc *WalletUseCase) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return uc.accountRepo.ApplyBet(ctx, userID, amount, 0)
}

// Credit pays winnings (or a refund) into the account
func (uc *WalletUseCase) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	return uc.accountRepo.Credit(ctx, userID, amount)
}

// ListTransactions returns a user's transactions, newest first
func (uc *WalletUseCase) ListTransactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.txRepo.ListByUser(ctx, userID, limit)
}

func (uc *WalletUseCase) recordTransaction(ctx context.Context, userID int64, txType string, amount int64) error {
	return uc.txRepo.Create(ctx, &domain.Transaction{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Status: domain.TransactionStatusCompleted,
	})
}
