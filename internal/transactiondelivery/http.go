// Package transactiondelivery manages delivery layer of transactions.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Process(ctx context.Context, arg domain.ProcessTransactionParams) (domain.TransactionResult, error)
	Get(ctx context.Context, reference string) (domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{service: ts}
}

type createRequest struct {
	Type          string `json:"transaction_type" binding:"required,oneof=debit credit transfer"`
	Amount        string `json:"amount" binding:"required"`
	DebitAccount  string `json:"debit_account_number" binding:"omitempty"`
	CreditAccount string `json:"credit_account_number" binding:"omitempty"`
}

// Create handles http request to debit, credit or transfer money.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	arg := domain.ProcessTransactionParams{
		Type:          req.Type,
		Amount:        req.Amount,
		DebitAccount:  req.DebitAccount,
		CreditAccount: req.CreditAccount,
	}

	result, err := h.service.Process(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAmount, domain.ErrInvalidOperation:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Success: result.Transaction.IsSuccessful,
		Message: result.Message,
		Data:    result.Transaction,
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	Reference string `uri:"reference" binding:"required"`
}

// Get handles http request to get transaction details.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	transaction, err := h.service.Get(ctx, req.Reference)
	if err != nil {
		if err == domain.ErrTransactionNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := web.Response{
		Success: true,
		Message: "Successful",
		Data:    transaction,
	}

	gctx.JSON(http.StatusOK, res)
}

// List handles http request to list all transactions.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	transactions, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := web.Response{
		Success: true,
		Message: "Successful",
		Data:    transactions,
	}

	gctx.JSON(http.StatusOK, res)
}
