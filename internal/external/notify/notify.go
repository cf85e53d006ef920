package rewards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	model "github.com/glkeru/rewards/internal/models"
)

// Клиент сервиса уведомлений. Черный ящик: принимает структурированное
// сообщение, доставка - его забота
type NotifyClient struct {
	host   string
	client *http.Client
}

func NewNotifyClient() (*NotifyClient, error) {
	// config
	host := os.Getenv("NOTIFY_HOST")
	if host == "" {
		return nil, fmt.Errorf("env NOTIFY_HOST is not set")
	}
	port := os.Getenv("NOTIFY_PORT")
	if port == "" {
		return nil, fmt.Errorf("env NOTIFY_PORT is not set")
	}

	return &NotifyClient{
		host:   host + ":" + port,
		client: &http.Client{Timeout: 5 * time.Second},
	}, nil
}

func (n *NotifyClient) Notify(ctx context.Context, msg model.Notification) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.host+"/notify", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notify service HTTP error: %s", resp.Status)
	}
	return nil
}
