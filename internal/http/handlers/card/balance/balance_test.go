package balance

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/card-management/internal/http/middlewarectx"
	"github.com/magabrotheeeer/card-management/internal/lib/money"
	"github.com/magabrotheeeer/card-management/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetBalance(ctx context.Context, username string, cardID int64) (money.Amount, error) {
	args := m.Called(ctx, username, cardID)
	return args.Get(0).(money.Amount), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newRequest(cardID string, withUser bool) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/cards/"+cardID+"/balance", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", cardID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if withUser {
		ctx = context.WithValue(ctx, middlewarectx.User, "testuser")
	}
	return req.WithContext(ctx)
}

func TestBalanceHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		cardID         string
		withUser       bool
		mockExpected   bool
		mockAmount     money.Amount
		mockErr        error
		wantStatusCode int
		wantStatus     string
		wantError      string
		wantBalance    string
	}{
		{
			name:           "successful balance read",
			cardID:         "1",
			withUser:       true,
			mockExpected:   true,
			mockAmount:     money.Amount(10000),
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
			wantBalance:    "100.00",
		},
		{
			name:           "invalid card id",
			cardID:         "abc",
			withUser:       true,
			wantStatusCode: http.StatusBadRequest,
			wantStatus:     "Error",
			wantError:      "invalid card id",
		},
		{
			name:           "unauthenticated request",
			cardID:         "1",
			withUser:       false,
			wantStatusCode: http.StatusUnauthorized,
			wantStatus:     "Error",
			wantError:      "unauthorized",
		},
		{
			name:           "card not found",
			cardID:         "1",
			withUser:       true,
			mockExpected:   true,
			mockErr:        models.ErrCardNotFound,
			wantStatusCode: http.StatusNotFound,
			wantStatus:     "Error",
			wantError:      "card not found",
		},
		{
			name:           "foreign card",
			cardID:         "1",
			withUser:       true,
			mockExpected:   true,
			mockErr:        models.ErrNotOwner,
			wantStatusCode: http.StatusForbidden,
			wantStatus:     "Error",
			wantError:      "user does not own this card",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			handler := New(newNoopLogger(), svc)

			if tt.mockExpected {
				svc.On("GetBalance", mock.Anything, "testuser", int64(1)).
					Return(tt.mockAmount, tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, newRequest(tt.cardID, tt.withUser))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			assert.Equal(t, tt.wantStatus, got["status"])
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, got["error"])
			}
			if tt.wantBalance != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantBalance, data["balance"])
			}

			svc.AssertExpectations(t)
		})
	}
}
