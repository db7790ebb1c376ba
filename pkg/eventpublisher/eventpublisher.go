package eventpublisher

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// EventTypeInventoryUpdated is the CloudEvent type emitted after a persist.
const EventTypeInventoryUpdated = "com.stocksync.inventory.updated"

const eventSource = "stocksync/webhooks"

// Client publishes inventory change CloudEvents to a downstream endpoint,
// HMAC-signed with the shared notification secret.
type Client struct {
	Endpoint   string
	Secret     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// InventoryUpdatedData is the CloudEvent data payload.
type InventoryUpdatedData struct {
	ShopName      string   `json:"shop_name"`
	CompositeKeys []string `json:"composite_keys"`
	UpdatedCount  int      `json:"updated_count"`
}

// PublishInventoryUpdated builds and delivers one inventory.updated event.
func (c Client) PublishInventoryUpdated(ctx context.Context, shopName string, compositeKeys []string) error {
	body, err := BuildEventBody(shopName, compositeKeys)
	if err != nil {
		return err
	}
	return c.publishBody(ctx, body)
}

// BuildEventBody serializes one inventory.updated CloudEvent.
func BuildEventBody(shopName string, compositeKeys []string) ([]byte, error) {
	shopName = strings.TrimSpace(shopName)
	if shopName == "" {
		return nil, fmt.Errorf("shop name is required")
	}

	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetType(EventTypeInventoryUpdated)
	event.SetSource(eventSource)
	event.SetSubject(shopName)
	event.SetTime(time.Now().UTC())
	err := event.SetData(cloudevents.ApplicationJSON, InventoryUpdatedData{
		ShopName:      shopName,
		CompositeKeys: compositeKeys,
		UpdatedCount:  len(compositeKeys),
	})
	if err != nil {
		return nil, fmt.Errorf("set event data: %w", err)
	}

	return json.Marshal(event)
}

func (c Client) publishBody(ctx context.Context, body []byte) error {
	endpoint := strings.TrimSpace(c.Endpoint)
	secret := strings.TrimSpace(c.Secret)
	if endpoint == "" || secret == "" {
		return fmt.Errorf("endpoint/secret are required")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		timeout := c.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Webhook-Signature", sign(body, secret))
	req.Header.Set("Content-Type", cloudevents.ApplicationCloudEventsJSON)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notification rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
