package service

import (
	"context"
	"fmt"
	"time"

	"upbolis-market/internal/core/domain"
	"upbolis-market/internal/core/ports"
	"upbolis-market/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultTransferDescription = "peer transfer"

// TransferServiceImpl implements ports.TransferService.
type TransferServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		transactor: transactor,
		log:        log,
	}
}

// Transfer moves funds from the sender's wallet to the recipient's,
// creating the recipient's wallet if this is their first credit.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	result, err := withConflictRetry(ctx, s.log, "transfer", func(ctx context.Context) (*ports.TransferResult, error) {
		return s.transferOnce(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("tx_id", result.TransactionID.String()).
		Str("sender_id", req.SenderID.String()).
		Str("recipient_id", req.RecipientID.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer completed")

	return result, nil
}

// transferOnce runs one transfer attempt in a single database transaction.
// Sender is locked before recipient; opposite-direction transfers can
// deadlock and one attempt is aborted for the caller to retry.
func (s *TransferServiceImpl) transferOnce(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get sender wallet. A registered sender without a wallet is a
	// data-integrity problem, not a business case.
	sender, err := s.walletRepo.GetByOwnerIDForUpdate(ctx, dbTx, req.SenderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock sender wallet: %w", err))
	}
	if sender == nil {
		return nil, apperror.ErrWalletNotFound(req.SenderID.String())
	}

	// Lock & get (or create) recipient wallet
	recipient, err := s.walletRepo.GetOrCreateByOwnerIDForUpdate(ctx, dbTx, req.RecipientID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock recipient wallet: %w", err))
	}

	// Compared on wallet IDs, not user IDs
	if sender.ID == recipient.ID {
		return nil, apperror.ErrSelfTransfer()
	}

	if !sender.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	senderBalance := sender.Balance.Sub(req.Amount)
	recipientBalance := recipient.Balance.Add(req.Amount)

	if err := s.walletRepo.UpdateBalance(ctx, dbTx, sender.ID, senderBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("debit sender: %w", err))
	}
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, recipient.ID, recipientBalance); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("credit recipient: %w", err))
	}

	description := req.Description
	if description == "" {
		description = defaultTransferDescription
	}

	txn := &domain.Transaction{
		ID:           uuid.New(),
		FromWalletID: sender.ID,
		ToWalletID:   recipient.ID,
		Amount:       req.Amount,
		Type:         domain.TransactionTypeTransfer,
		Description:  description,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	return &ports.TransferResult{
		TransactionID:    txn.ID,
		SenderBalance:    senderBalance,
		RecipientBalance: recipientBalance,
	}, nil
}
