// Package notify sends fire-and-forget notifications about new orders.
// Delivery failure never blocks order creation; callers log and move on.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/lithursan/webapp/models"
)

// Notifier is the outbound notification collaborator.
type Notifier interface {
	SendNewOrderNotification(actor models.User, order models.Order, customerName string) error
}

// WebhookNotifier posts a formatted message to a configured webhook.
// With no URL configured it is a no-op, which keeps local development
// quiet.
type WebhookNotifier struct {
	URL    string
	Token  string
	Client *http.Client
}

// NewWebhookNotifier reads NOTIFY_WEBHOOK_URL and NOTIFY_TOKEN from the
// environment.
func NewWebhookNotifier() *WebhookNotifier {
	return &WebhookNotifier{
		URL:    os.Getenv("NOTIFY_WEBHOOK_URL"),
		Token:  os.Getenv("NOTIFY_TOKEN"),
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) SendNewOrderNotification(actor models.User, order models.Order, customerName string) error {
	if n.URL == "" {
		return nil
	}

	payload := map[string]string{
		"message": FormatNewOrderMessage(actor, order, customerName),
		"order":   order.ID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, n.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.Token != "" {
		req.Header.Set("Authorization", n.Token)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// FormatNewOrderMessage renders the new-order message body.
func FormatNewOrderMessage(actor models.User, order models.Order, customerName string) string {
	msg := "NEW ORDER\n\n"
	msg += fmt.Sprintf("Order: %s\n", order.ID)
	msg += fmt.Sprintf("Customer: %s\n", customerName)
	msg += fmt.Sprintf("Taken by: %s (%s)\n", actor.Name, actor.Role)
	msg += fmt.Sprintf("Total: %.2f\n", order.TotalAmount)
	msg += fmt.Sprintf("Items: %d active, %d on hold\n", len(order.Items), len(order.BackorderedItems))
	msg += fmt.Sprintf("\nPlaced at %s", time.Now().Format("02/01/2006 15:04:05"))
	return msg
}
