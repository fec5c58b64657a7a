package transactiondelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/internal/transactionservice"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupHandler(t *testing.T) (*MockService, *gin.Engine) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	engine := gin.New()
	engine.POST("/transactions", handler.Create)
	engine.GET("/transactions/:reference", handler.Get)
	engine.GET("/transactions", handler.List)

	return service, engine
}

func randomTransaction(transactionType string, isSuccessful bool) domain.Transaction {
	transaction := domain.Transaction{
		Reference:    randompkg.AccountNumber(),
		Type:         transactionType,
		Amount:       "300.00",
		IsSuccessful: isSuccessful,
		CreatedAt:    time.Now().Truncate(time.Second).UTC(),
		ModifiedAt:   time.Now().Truncate(time.Second).UTC(),
	}

	if transactionType == domain.Debit || transactionType == domain.Transfer {
		debit := randompkg.AccountNumber()
		transaction.DebitAccount = &debit
	}

	if transactionType == domain.Credit || transactionType == domain.Transfer {
		credit := randompkg.AccountNumber()
		transaction.CreditAccount = &credit
	}

	return transaction
}

func TestCreate(t *testing.T) {
	successfulTransfer := randomTransaction(domain.Transfer, true)
	failedDebit := randomTransaction(domain.Debit, false)

	type requestBody struct {
		Type          string `json:"transaction_type,omitempty"`
		Amount        string `json:"amount,omitempty"`
		DebitAccount  string `json:"debit_account_number,omitempty"`
		CreditAccount string `json:"credit_account_number,omitempty"`
	}

	testCases := []struct {
		name           string
		requestBody    requestBody
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
		checkResponse  func(body []byte)
	}{
		{
			name: "TransferOK",
			requestBody: requestBody{
				Type:          domain.Transfer,
				Amount:        "300",
				DebitAccount:  *successfulTransfer.DebitAccount,
				CreditAccount: *successfulTransfer.CreditAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Eq(domain.ProcessTransactionParams{
						Type:          domain.Transfer,
						Amount:        "300",
						DebitAccount:  *successfulTransfer.DebitAccount,
						CreditAccount: *successfulTransfer.CreditAccount,
					})).
					Times(1).
					Return(domain.TransactionResult{
						Transaction: successfulTransfer,
						Message:     transactionservice.MsgSuccessful,
					}, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(body []byte) {
				var res struct {
					Success bool               `json:"success"`
					Message string             `json:"message"`
					Data    domain.Transaction `json:"data"`
				}

				require.NoError(t, json.Unmarshal(body, &res))
				require.True(t, res.Success)
				require.Equal(t, transactionservice.MsgSuccessful, res.Message)
				require.Equal(t, successfulTransfer.Reference, res.Data.Reference)
				require.True(t, res.Data.IsSuccessful)
			},
		},
		{
			name: "InsufficientBalance",
			requestBody: requestBody{
				Type:         domain.Debit,
				Amount:       "300",
				DebitAccount: *failedDebit.DebitAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{
						Transaction: failedDebit,
						Message:     transactionservice.MsgInsufficientBalance,
					}, nil)
			},
			wantStatusCode: http.StatusOK,
			checkResponse: func(body []byte) {
				var res struct {
					Success bool               `json:"success"`
					Message string             `json:"message"`
					Data    domain.Transaction `json:"data"`
				}

				require.NoError(t, json.Unmarshal(body, &res))
				require.False(t, res.Success)
				require.Equal(t, transactionservice.MsgInsufficientBalance, res.Message)
				require.False(t, res.Data.IsSuccessful)
			},
		},
		{
			name: "UnknownTypeRejectedByBinding",
			requestBody: requestBody{
				Type:         "withdraw",
				Amount:       "300",
				DebitAccount: *failedDebit.DebitAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type is invalid",
		},
		{
			name: "MissingAmount",
			requestBody: requestBody{
				Type:         domain.Debit,
				DebitAccount: *failedDebit.DebitAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Process(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Amount is required",
		},
		{
			name: "ErrInvalidOperation",
			requestBody: requestBody{
				Type:          domain.Transfer,
				Amount:        "300",
				DebitAccount:  *successfulTransfer.DebitAccount,
				CreditAccount: *successfulTransfer.DebitAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, domain.ErrInvalidOperation)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidOperation.Error(),
		},
		{
			name: "ErrAccountNotFound",
			requestBody: requestBody{
				Type:         domain.Debit,
				Amount:       "300",
				DebitAccount: "0000000000000000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "ErrInternal",
			requestBody: requestBody{
				Type:         domain.Debit,
				Amount:       "300",
				DebitAccount: *failedDebit.DebitAccount,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Process(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransactionResult{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			service, engine := setupHandler(t)
			tc.buildStubs(service)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, "/transactions", bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantError != "" {
				var res struct {
					Error string `json:"error"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, tc.wantError, res.Error)
			}

			if tc.checkResponse != nil {
				tc.checkResponse(recorder.Body.Bytes())
			}
		})
	}
}

func TestGet(t *testing.T) {
	transaction := randomTransaction(domain.Credit, true)

	testCases := []struct {
		name           string
		reference      string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:      "OK",
			reference: transaction.Reference,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(transaction.Reference)).
					Times(1).
					Return(transaction, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:      "ErrTransactionNotFound",
			reference: "0000000000000000",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq("0000000000000000")).
					Times(1).
					Return(domain.Transaction{}, domain.ErrTransactionNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrTransactionNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			service, engine := setupHandler(t)
			tc.buildStubs(service)

			req, err := http.NewRequest(http.MethodGet, "/transactions/"+tc.reference, nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			engine.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatusCode, recorder.Code)

			if tc.wantError != "" {
				var res struct {
					Error string `json:"error"`
				}

				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, tc.wantError, res.Error)
			}
		})
	}
}

func TestList(t *testing.T) {
	transactions := []domain.Transaction{
		randomTransaction(domain.Transfer, true),
		randomTransaction(domain.Debit, false),
	}

	service, engine := setupHandler(t)

	service.EXPECT().List(gomock.Any()).Times(1).Return(transactions, nil)

	req, err := http.NewRequest(http.MethodGet, "/transactions", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Success bool                 `json:"success"`
		Data    []domain.Transaction `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.True(t, res.Success)
	require.Len(t, res.Data, 2)
	require.Equal(t, transactions[0].Reference, res.Data[0].Reference)
}
