package accountdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/currencypkg"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
			os.Exit(1)
		}
	}

	os.Exit(m.Run())
}

func setupHandler(t *testing.T) (*MockService, *gin.Engine) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	engine := gin.New()
	engine.POST("/accounts", handler.Open)
	engine.GET("/accounts/:account_number", handler.Get)
	engine.GET("/accounts", handler.List)

	return service, engine
}

func randomAccount() domain.Account {
	return domain.Account{
		AccountNumber: randompkg.AccountNumber(),
		Owner:         randompkg.Owner(),
		Balance:       "1000.00",
		Currency:      currencypkg.INR,
		CreatedAt:     time.Now().Truncate(time.Second).UTC(),
		ModifiedAt:    time.Now().Truncate(time.Second).UTC(),
	}
}

func TestOpen(t *testing.T) {
	account := randomAccount()

	type requestBody struct {
		Owner    string `json:"owner,omitempty"`
		Balance  string `json:"balance,omitempty"`
		Currency string `json:"currency,omitempty"`
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
			name: "OK",
			requestBody: requestBody{
				Owner:    account.Owner,
				Balance:  "1000",
				Currency: account.Currency,
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(account.Owner), gomock.Eq("1000"), gomock.Eq(account.Currency)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusCreated,
			checkResponse: func(body []byte) {
				var res struct {
					Success bool `json:"success"`
					Data    struct {
						AccountNumber string `json:"account_number"`
					} `json:"data"`
				}

				require.NoError(t, json.Unmarshal(body, &res))
				require.True(t, res.Success)
				require.Equal(t, account.AccountNumber, res.Data.AccountNumber)
			},
		},
		{
			name: "MissingOwner",
			requestBody: requestBody{
				Balance: "1000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Owner is required",
		},
		{
			name: "UnsupportedCurrency",
			requestBody: requestBody{
				Owner:    account.Owner,
				Balance:  "1000",
				Currency: "RUB",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Open(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Currency is not supported",
		},
		{
			name: "ErrInvalidAmount",
			requestBody: requestBody{
				Owner:   account.Owner,
				Balance: "-1000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(account.Owner), gomock.Eq("-1000"), gomock.Eq("")).
					Times(1).
					Return(domain.Account{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name: "ErrOwnerAlreadyExists",
			requestBody: requestBody{
				Owner:   account.Owner,
				Balance: "1000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(account.Owner), gomock.Eq("1000"), gomock.Eq("")).
					Times(1).
					Return(domain.Account{}, domain.ErrOwnerAlreadyExists)
			},
			wantStatusCode: http.StatusConflict,
			wantError:      domain.ErrOwnerAlreadyExists.Error(),
		},
		{
			name: "ErrInternal",
			requestBody: requestBody{
				Owner:   account.Owner,
				Balance: "1000",
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(account.Owner), gomock.Eq("1000"), gomock.Eq("")).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
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

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
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
	account := randomAccount()

	testCases := []struct {
		name           string
		accountNumber  string
		buildStubs     func(service *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:          "OK",
			accountNumber: account.AccountNumber,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:          "ErrAccountNotFound",
			accountNumber: "0000000000000000",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq("0000000000000000")).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:          "ErrInternal",
			accountNumber: account.AccountNumber,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
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

			req, err := http.NewRequest(http.MethodGet, "/accounts/"+tc.accountNumber, nil)
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

				return
			}

			var res struct {
				Data domain.Account `json:"data"`
			}

			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))

			compareTimes := cmpopts.EquateApproxTime(time.Second)
			if diff := cmp.Diff(account, res.Data, compareTimes); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	accounts := []domain.Account{randomAccount(), randomAccount()}

	service, engine := setupHandler(t)

	service.EXPECT().List(gomock.Any()).Times(1).Return(accounts, nil)

	req, err := http.NewRequest(http.MethodGet, "/accounts", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res struct {
		Success bool             `json:"success"`
		Data    []domain.Account `json:"data"`
	}

	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.True(t, res.Success)

	compareTimes := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(accounts, res.Data, compareTimes); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
