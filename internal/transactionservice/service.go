// Package transactionservice manages business logic layer of transactions.
package transactionservice

import (
	"context"

	"github.com/go-petr/bank-ledger/internal/accountdelivery"
	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/idpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	referenceDigits     = 16
	maxGenerateAttempts = 5
)

// Outcome messages returned alongside the persisted transaction.
const (
	MsgSuccessful          = "Successful"
	MsgInsufficientBalance = "Insufficient balance"
)

// Repo provides data access layer interface needed by transaction service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transactionservice
type Repo interface {
	Perform(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error)
	Get(ctx context.Context, reference string) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Service facilitates transaction service layer logic.
type Service struct {
	repo           Repo
	accountService accountdelivery.Service
}

// New returns transaction service struct to manage transaction bussines logic.
func New(tr Repo, as accountdelivery.Service) *Service {
	return &Service{
		repo:           tr,
		accountService: as,
	}
}

func (s *Service) validRequest(ctx context.Context, arg domain.ProcessTransactionParams) (string, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(arg.Amount)
	if err != nil {
		l.Info().Err(err).Send()
		return "", domain.ErrInvalidAmount
	}

	if !amountDecimal.IsPositive() || amountDecimal.Exponent() < -2 {
		return "", domain.ErrInvalidAmount
	}

	switch arg.Type {
	case domain.Debit:
		if arg.DebitAccount == "" || arg.CreditAccount != "" {
			return "", domain.ErrInvalidOperation
		}
	case domain.Credit:
		if arg.CreditAccount == "" || arg.DebitAccount != "" {
			return "", domain.ErrInvalidOperation
		}
	case domain.Transfer:
		if arg.DebitAccount == "" || arg.CreditAccount == "" {
			return "", domain.ErrInvalidOperation
		}

		if arg.DebitAccount == arg.CreditAccount {
			return "", domain.ErrInvalidOperation
		}
	default:
		return "", domain.ErrInvalidOperation
	}

	if arg.DebitAccount != "" {
		if _, err := s.accountService.Get(ctx, arg.DebitAccount); err != nil {
			l.Info().Err(err).Send()
			return "", err
		}
	}

	if arg.CreditAccount != "" {
		if _, err := s.accountService.Get(ctx, arg.CreditAccount); err != nil {
			l.Info().Err(err).Send()
			return "", err
		}
	}

	return amountDecimal.StringFixed(2), nil
}

// Process validates the transaction request and executes it atomically.
//
// An insufficient balance on the debit leg is a recorded business outcome,
// not a request error: the failed transaction is persisted with
// is_successful=false and returned with a nil error. Validation failures
// reject the request before any record or balance change exists.
func (s *Service) Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error) {
	l := zerolog.Ctx(ctx)

	amount, err := s.validRequest(ctx, arg)
	if err != nil {
		return domain.TransactionResult{}, err
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		reference, err := idpkg.Numeric(referenceDigits)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.TransactionResult{}, errorspkg.ErrInternal
		}

		createArg := domain.CreateTransactionParams{
			Reference:     reference,
			Type:          arg.Type,
			Amount:        amount,
			DebitAccount:  arg.DebitAccount,
			CreditAccount: arg.CreditAccount,
		}

		transaction, err := s.repo.Perform(ctx, createArg)

		switch err {
		case nil:
			return domain.TransactionResult{Transaction: transaction, Message: MsgSuccessful}, nil
		case domain.ErrReferenceTaken:
			l.Info().Str("reference", reference).Msg("transaction reference collision, regenerating")
			continue
		case domain.ErrInsufficientBalance:
			transaction, err := s.repo.Create(ctx, createArg)
			if err == domain.ErrReferenceTaken {
				l.Info().Str("reference", reference).Msg("transaction reference collision, regenerating")
				continue
			}

			if err != nil {
				return domain.TransactionResult{}, err
			}

			return domain.TransactionResult{Transaction: transaction, Message: MsgInsufficientBalance}, nil
		default:
			return domain.TransactionResult{}, err
		}
	}

	return domain.TransactionResult{}, errorspkg.ErrInternal
}

// Get returns the transaction with the given reference.
func (s *Service) Get(ctx context.Context, reference string) (domain.Transaction, error) {
	transaction, err := s.repo.Get(ctx, reference)
	if err != nil {
		return transaction, err
	}

	return transaction, nil
}

// List returns all transactions, most recently created first.
func (s *Service) List(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return transactions, nil
}
