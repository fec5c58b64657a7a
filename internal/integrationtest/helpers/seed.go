// Package helpers provides seed functions shared by integration tests.
package helpers

import (
	"context"
	"testing"

	"github.com/go-petr/bank-ledger/internal/accountrepo"
	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
)

// SeedAccount creates an account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, db dbpkg.SQLInterface, balance, currency string) domain.Account {
	t.Helper()

	arg := domain.CreateAccountParams{
		AccountNumber: randompkg.AccountNumber(),
		Owner:         randompkg.Owner(),
		Balance:       balance,
		Currency:      currency,
	}

	accountRepo := accountrepo.NewRepoPGS(db)

	account, err := accountRepo.Create(context.Background(), arg)
	if err != nil {
		t.Fatalf("accountRepo.Create(context.Background(), %+v) returned error: %v", arg, err)
	}

	return account
}

// RandomAccount returns an account with random attributes without touching storage.
func RandomAccount(owner string) domain.Account {
	return domain.Account{
		AccountNumber: randompkg.AccountNumber(),
		Owner:         owner,
		Balance:       randompkg.MoneyAmountBetween(100, 10_000),
		Currency:      randompkg.Currency(),
	}
}
