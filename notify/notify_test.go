package notify_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lithursan/webapp/models"
	"github.com/lithursan/webapp/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookNotifier(t *testing.T) {
	t.Run("posts the formatted message", func(t *testing.T) {
		var got map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "secret-token", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		}))
		defer srv.Close()

		n := &notify.WebhookNotifier{
			URL:    srv.URL,
			Token:  "secret-token",
			Client: &http.Client{Timeout: time.Second},
		}
		actor := models.User{Name: "Sam Sales", Role: models.RoleSalesRep}
		order := models.Order{ID: "ORD042", TotalAmount: 1250}

		require.NoError(t, n.SendNewOrderNotification(actor, order, "City Mart"))
		assert.Equal(t, "ORD042", got["order"])
		assert.Contains(t, got["message"], "ORD042")
		assert.Contains(t, got["message"], "City Mart")
	})

	t.Run("non-200 response is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		n := &notify.WebhookNotifier{URL: srv.URL, Client: &http.Client{Timeout: time.Second}}
		err := n.SendNewOrderNotification(models.User{}, models.Order{ID: "ORD001"}, "x")
		assert.Error(t, err)
	})

	t.Run("unconfigured notifier is a silent no-op", func(t *testing.T) {
		n := &notify.WebhookNotifier{Client: &http.Client{Timeout: time.Second}}
		assert.NoError(t, n.SendNewOrderNotification(models.User{}, models.Order{}, "x"))
	})
}
