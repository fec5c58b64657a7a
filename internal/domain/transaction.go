package domain

import (
	"errors"
	"time"
)

var (
	// ErrTransactionNotFound indicates that the transaction is not found.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrReferenceTaken indicates that the generated reference collided with an
	// existing one and generation must be retried.
	ErrReferenceTaken = errors.New("transaction reference already taken")
	// ErrInvalidAmount indicates invalid amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidOperation indicates a malformed transaction request.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInsufficientBalance indicates that the debit account does not have
	// sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Transaction types.
const (
	Debit    = "debit"
	Credit   = "credit"
	Transfer = "transfer"
)

// Transaction is the immutable record of a money movement attempt.
//
// DebitAccount is set for debit and transfer, CreditAccount for credit and
// transfer. Once persisted a transaction is never updated or deleted.
type Transaction struct {
	Reference     string    `json:"reference"`
	Type          string    `json:"transaction_type"`
	Amount        string    `json:"amount"`
	DebitAccount  *string   `json:"debit_account"`
	CreditAccount *string   `json:"credit_account"`
	IsSuccessful  bool      `json:"is_successful"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// ProcessTransactionParams is the input data for the transaction engine.
type ProcessTransactionParams struct {
	Type          string `json:"transaction_type"`
	Amount        string `json:"amount"`
	DebitAccount  string `json:"debit_account_number"`
	CreditAccount string `json:"credit_account_number"`
}

// CreateTransactionParams is the input data to persist a transaction record.
type CreateTransactionParams struct {
	Reference     string
	Type          string
	Amount        string
	DebitAccount  string
	CreditAccount string
	IsSuccessful  bool
}

// TransactionResult pairs the persisted transaction with the outcome message
// returned to the caller.
type TransactionResult struct {
	Transaction Transaction `json:"transaction"`
	Message     string      `json:"message"`
}
