package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"videocall-service/internal/config"
)

// Notification matches the notification service's batch ingestion schema.
type Notification struct {
	UserID    string `json:"userId"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	RelatedID string `json:"relatedId"`
	IsRead    bool   `json:"isRead"`
}

// NotificationClient submits notification batches to the notification service.
// No retries: a failed batch is reported to the caller and not replayed.
type NotificationClient struct {
	baseURL string
	client  *http.Client
}

func NewNotificationClient(cfg config.UpstreamConfig) *NotificationClient {
	return &NotificationClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *NotificationClient) SendBatch(ctx context.Context, batch []Notification, bearer string) error {
	body, err := json.Marshal(batch)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/students/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusToErr("notification send", resp.StatusCode)
	}
	return nil
}
