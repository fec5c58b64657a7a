// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

const createQuery = `
INSERT INTO
    accounts (account_number, owner, balance, currency)
VALUES
    ($1, $2, $3, $4)
RETURNING account_number, owner, balance, currency, created_at, modified_at
`

// Create creates the account and then returns it.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateAccountParams) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, arg.AccountNumber, arg.Owner, arg.Balance, arg.Currency)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.ModifiedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_pkey":
				return a, domain.ErrAccountNumberTaken
			case "accounts_owner_key":
				return a, domain.ErrOwnerAlreadyExists
			case "accounts_balance_check":
				return a, domain.ErrInvalidAmount
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	account_number, owner, balance, currency, created_at, modified_at
FROM accounts
WHERE account_number = $1
`

// Get returns the account with the given account number.
func (r *RepoPGS) Get(ctx context.Context, accountNumber string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, accountNumber)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.ModifiedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const listQuery = `
SELECT
	account_number, owner, balance, currency, created_at, modified_at
FROM accounts
ORDER BY created_at DESC
`

// List returns all accounts, most recently created first.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.AccountNumber, &a.Owner, &a.Balance, &a.Currency, &a.CreatedAt, &a.ModifiedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Close(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const addBalanceQuery = `
UPDATE accounts
SET balance = balance + $1, modified_at = clock_timestamp()
WHERE account_number = $2
RETURNING account_number, owner, balance, currency, created_at, modified_at
`

// AddBalance adds the signed amount to the account's balance and returns the
// changed account.
//
// It is the single balance mutation primitive. The accounts_balance_check
// constraint rejects any update that would drive the balance negative, which
// surfaces here as domain.ErrInsufficientBalance.
func (r *RepoPGS) AddBalance(ctx context.Context, amount string, accountNumber string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, addBalanceQuery, amount, accountNumber)

	var a domain.Account

	err := row.Scan(
		&a.AccountNumber,
		&a.Owner,
		&a.Balance,
		&a.Currency,
		&a.CreatedAt,
		&a.ModifiedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Constraint == "accounts_balance_check" {
				return a, domain.ErrInsufficientBalance
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
