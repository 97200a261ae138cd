package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quickeats/courier-client/internal/domain/models"
	"github.com/quickeats/courier-client/internal/domain/types"
	"github.com/quickeats/courier-client/pkg/logger"
)

type tokenFunc func(ctx context.Context) (string, error)

func (f tokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

func staticToken(token string) TokenSource {
	return tokenFunc(func(context.Context) (string, error) { return token, nil })
}

func newClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(srv.URL, staticToken("test-token"), 2*time.Second)
}

func TestAcceptOrder(t *testing.T) {
	offerID := uuid.New()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, fmt.Sprintf("/v1/orders/%s/accept", offerID), r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(models.ActiveOrder{
			ID:    offerID,
			Stage: types.StageDriverAssigned,
			Earnings: models.Earnings{
				NetEarning: 750,
				Subtotal:   4200,
			},
		})
	})

	order, err := client.AcceptOrder(context.Background(), offerID)
	require.NoError(t, err)
	require.Equal(t, offerID, order.ID)
	require.Equal(t, types.StageDriverAssigned, order.Stage)
	require.Equal(t, 750.0, order.Earnings.NetEarning)
}

// 409 and 410 both mean the offer went to someone else.
func TestAcceptOrderConflict(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusGone} {
		client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.AcceptOrder(context.Background(), uuid.New())
		require.ErrorIs(t, err, types.ErrOfferConflict, "status %d", status)
	}
}

func TestAcceptOrderServerError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.AcceptOrder(context.Background(), uuid.New())
	require.Error(t, err)
	require.NotErrorIs(t, err, types.ErrOfferConflict)
}

func TestRejectOrder(t *testing.T) {
	offerID := uuid.New()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, fmt.Sprintf("/v1/orders/%s/reject", offerID), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.RejectOrder(context.Background(), offerID))
}

func TestAdvanceStatus(t *testing.T) {
	orderID := uuid.New()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, fmt.Sprintf("/v1/orders/%s/status", orderID), r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "PICKED_UP", body["stage"])

		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.AdvanceStatus(context.Background(), orderID, types.StagePickedUp))
}

func TestAdvanceStatusRejected(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	err := client.AdvanceStatus(context.Background(), uuid.New(), types.StageReady)
	require.ErrorIs(t, err, types.ErrStatusAdvance)
}

func TestActiveOrders(t *testing.T) {
	orderID := uuid.New()

	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/couriers/me/orders", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("active"))

		json.NewEncoder(w).Encode(map[string]any{
			"orders": []models.ActiveOrder{{ID: orderID, Stage: types.StagePickedUp}},
		})
	})

	orders, err := client.ActiveOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, orderID, orders[0].ID)
	require.Equal(t, types.StagePickedUp, orders[0].Stage)
}

func TestActiveOrdersEmpty(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"orders": []models.ActiveOrder{}})
	})

	orders, err := client.ActiveOrders(context.Background())
	require.NoError(t, err)
	require.Empty(t, orders)
}

// The expiry warning must not break token handout for unparsable or
// expired tokens.
func TestStaticTokenSource(t *testing.T) {
	log := logger.InitLogger("test", logger.LevelError)

	s := NewStaticTokenSource("not-a-jwt", log)
	token, err := s.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "not-a-jwt", token)
}
