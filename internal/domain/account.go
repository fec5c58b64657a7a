// Package domain provides defenitions of all entities.
package domain

import (
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerAlreadyExists indicates that the owner already has an account.
	ErrOwnerAlreadyExists = errors.New("owner already has an account")
	// ErrAccountNumberTaken indicates that the generated account number collided
	// with an existing one and generation must be retried.
	ErrAccountNumberTaken = errors.New("account number already taken")
	// ErrCurrencyNotSupported indicates that the currency is not supported.
	ErrCurrencyNotSupported = errors.New("currency is not supported")
)

// Account holds the balance of a single owner in a single currency.
//
// AccountNumber is assigned once at creation and never changes. Balance never
// goes below zero; the storage layer enforces this on every update.
type Account struct {
	AccountNumber string    `json:"account_number"`
	Owner         string    `json:"owner"`
	Balance       string    `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"created_at"`
	ModifiedAt    time.Time `json:"modified_at"`
}

// CreateAccountParams is the input data to persist a new account.
type CreateAccountParams struct {
	AccountNumber string `json:"account_number"`
	Owner         string `json:"owner"`
	Balance       string `json:"balance"`
	Currency      string `json:"currency"`
}
