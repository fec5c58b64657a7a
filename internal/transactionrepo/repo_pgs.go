// Package transactionrepo manages repository layer of transactions.
package transactionrepo

import (
	"context"
	"database/sql"

	"github.com/go-petr/bank-ledger/internal/accountrepo"
	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/dbpkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction repository layer logic.
type RepoPGS struct {
	db   dbpkg.SQLInterface
	conn *sql.DB
}

// NewTxRepoPGS returns transaction RepoPGS bound to an ongoing transaction.
func NewTxRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// NewRepoPGS returns transaction RepoPGS with a connection to start transactions.
func NewRepoPGS(db *sql.DB) *RepoPGS {
	return &RepoPGS{
		db:   db,
		conn: db,
	}
}

const createQuery = `
INSERT INTO
    transactions (reference, transaction_type, amount, debit_account, credit_account, is_successful)
VALUES
    ($1, $2, $3, $4, $5, $6)
RETURNING reference, transaction_type, amount, debit_account, credit_account, is_successful, created_at, modified_at
`

// Create persists the transaction record with its final success flag and
// returns it. Records are inserted in terminal state and never updated.
func (r *RepoPGS) Create(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery,
		arg.Reference,
		arg.Type,
		arg.Amount,
		nullString(arg.DebitAccount),
		nullString(arg.CreditAccount),
		arg.IsSuccessful,
	)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Msgf("Create(ctx, %+v)", arg)

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_pkey":
				return t, domain.ErrReferenceTaken
			case "transactions_debit_account_fkey", "transactions_credit_account_fkey":
				return t, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return t, domain.ErrInvalidAmount
			}
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const getQuery = `
SELECT
	reference, transaction_type, amount, debit_account, credit_account, is_successful, created_at, modified_at
FROM transactions
WHERE reference = $1
`

// Get returns the transaction with the given reference.
func (r *RepoPGS) Get(ctx context.Context, reference string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, reference)

	t, err := scanTransaction(row)
	if err != nil {
		l.Error().Err(err).Send()

		if err == sql.ErrNoRows {
			return t, domain.ErrTransactionNotFound
		}

		return t, errorspkg.ErrInternal
	}

	return t, nil
}

const listQuery = `
SELECT
	reference, transaction_type, amount, debit_account, credit_account, is_successful, created_at, modified_at
FROM transactions
ORDER BY created_at DESC
`

// List returns all transactions, most recently created first.
func (r *RepoPGS) List(ctx context.Context) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var (
			t             domain.Transaction
			debitAccount  sql.NullString
			creditAccount sql.NullString
		)

		if err := rows.Scan(
			&t.Reference,
			&t.Type,
			&t.Amount,
			&debitAccount,
			&creditAccount,
			&t.IsSuccessful,
			&t.CreatedAt,
			&t.ModifiedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		t.DebitAccount = stringPtr(debitAccount)
		t.CreditAccount = stringPtr(creditAccount)

		items = append(items, t)
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

// Perform applies the balance changes for the given transaction and persists
// its record within a single database transaction.
//
// For transfers both legs commit or neither does; the legs run in ascending
// account number order so concurrent transfers over overlapping account pairs
// cannot deadlock. Domain errors from the legs (insufficient balance, account
// not found) roll the whole transaction back and leave no record behind.
func (r *RepoPGS) Perform(ctx context.Context, arg domain.CreateTransactionParams) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	var result domain.Transaction

	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			l.Error().Err(err).Send()
		}
	}()

	accountRepo := accountrepo.NewRepoPGS(tx)

	if err := applyLegs(ctx, accountRepo, arg); err != nil {
		return result, err
	}

	arg.IsSuccessful = true

	result, err = NewTxRepoPGS(tx).Create(ctx, arg)
	if err != nil {
		return result, err
	}

	if err := tx.Commit(); err != nil {
		l.Error().Err(err).Send()
		return result, errorspkg.ErrInternal
	}

	return result, nil
}

type leg struct {
	accountNumber string
	amount        string
}

func applyLegs(ctx context.Context, r *accountrepo.RepoPGS, arg domain.CreateTransactionParams) error {
	var legs []leg

	switch arg.Type {
	case domain.Debit:
		legs = []leg{{arg.DebitAccount, "-" + arg.Amount}}
	case domain.Credit:
		legs = []leg{{arg.CreditAccount, arg.Amount}}
	case domain.Transfer:
		legs = []leg{
			{arg.DebitAccount, "-" + arg.Amount},
			{arg.CreditAccount, arg.Amount},
		}

		// To avoid deadlocks execute statements in consistent account order
		if legs[1].accountNumber < legs[0].accountNumber {
			legs[0], legs[1] = legs[1], legs[0]
		}
	default:
		return domain.ErrInvalidOperation
	}

	for _, leg := range legs {
		if _, err := r.AddBalance(ctx, leg.amount, leg.accountNumber); err != nil {
			return err
		}
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}

	return &ns.String
}

func scanTransaction(row *sql.Row) (domain.Transaction, error) {
	var (
		t             domain.Transaction
		debitAccount  sql.NullString
		creditAccount sql.NullString
	)

	err := row.Scan(
		&t.Reference,
		&t.Type,
		&t.Amount,
		&debitAccount,
		&creditAccount,
		&t.IsSuccessful,
		&t.CreatedAt,
		&t.ModifiedAt,
	)
	if err != nil {
		return t, err
	}

	t.DebitAccount = stringPtr(debitAccount)
	t.CreditAccount = stringPtr(creditAccount)

	return t, nil
}
