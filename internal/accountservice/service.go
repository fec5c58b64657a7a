// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/currencypkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/idpkg"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	accountNumberDigits = 16
	maxGenerateAttempts = 5
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error)
	Get(ctx context.Context, accountNumber string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo            Repo
	defaultCurrency string
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, defaultCurrency string) *Service {
	return &Service{
		repo:            ar,
		defaultCurrency: defaultCurrency,
	}
}

// Open creates an account for the given owner with the given starting balance
// and returns it.
//
// The account number is generated here, not assigned by storage, so the
// construction is total and visible at the call site. On a number collision
// generation is retried against the storage uniqueness constraint.
func (s *Service) Open(ctx context.Context, owner, balance, currency string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	balanceDecimal, err := decimal.NewFromString(balance)
	if err != nil {
		l.Info().Err(err).Send()
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if balanceDecimal.IsNegative() || balanceDecimal.Exponent() < -2 {
		return domain.Account{}, domain.ErrInvalidAmount
	}

	if currency == "" {
		currency = s.defaultCurrency
	}

	if !currencypkg.IsSupportedCurrency(currency) {
		return domain.Account{}, domain.ErrCurrencyNotSupported
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		number, err := idpkg.Numeric(accountNumberDigits)
		if err != nil {
			l.Error().Err(err).Send()
			return domain.Account{}, errorspkg.ErrInternal
		}

		arg := domain.CreateAccountParams{
			AccountNumber: number,
			Owner:         owner,
			Balance:       balanceDecimal.StringFixed(2),
			Currency:      currency,
		}

		account, err := s.repo.Create(ctx, arg)
		if err == domain.ErrAccountNumberTaken {
			l.Info().Str("account_number", number).Msg("account number collision, regenerating")
			continue
		}

		if err != nil {
			return domain.Account{}, err
		}

		return account, nil
	}

	return domain.Account{}, errorspkg.ErrInternal
}

// Get returns the account with the given account number.
func (s *Service) Get(ctx context.Context, accountNumber string) (domain.Account, error) {
	account, err := s.repo.Get(ctx, accountNumber)
	if err != nil {
		return account, err
	}

	return account, nil
}

// List returns all accounts, most recently created first.
func (s *Service) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
