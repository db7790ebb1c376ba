package routes

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/app/services"
	"github.com/fr0stylo/stocksync/internal/webhooks/shopify"
)

const (
	// DeliveryIDHeader carries the platform's unique webhook delivery id.
	DeliveryIDHeader = "X-Shopify-Webhook-Id"
	maxPayloadBytes  = 1 << 20
)

type successBody struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
}

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details"`
}

// WebhookRoutes registers webhook ingestion endpoints.
type WebhookRoutes struct {
	ingest *services.IngestionService
	dedup  ports.DedupCache
	topic  string
	log    *slog.Logger
}

// NewWebhookRoutes constructs webhook routes. dedup may be nil when delivery
// deduplication is not configured.
func NewWebhookRoutes(ingest *services.IngestionService, dedup ports.DedupCache, topic string, log *slog.Logger) *WebhookRoutes {
	if topic == "" {
		topic = shopify.TopicInventoryLevelsUpdate
	}
	if log == nil {
		log = slog.Default()
	}
	return &WebhookRoutes{ingest: ingest, dedup: dedup, topic: topic, log: log}
}

// RegisterRoutes registers webhook endpoints.
func (w *WebhookRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/webhooks/shopify", w.handleInventoryWebhook)
	s.POST("/webhooks/events", w.handleEventEnvelope)
}

// handleInventoryWebhook ingests the flat {"inventory_levels": [...]} webhook
// body delivered directly by the platform.
func (w *WebhookRoutes) handleInventoryWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPayloadBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request", Details: "unreadable body"})
	}

	headers := c.Request().Header
	handled, deliveryID, err := w.gate(c, headers)
	if handled {
		return err
	}

	result, err := w.ingest.Process(c.Request().Context(), services.IngestCommand{
		Headers: headers,
		Body:    body,
	})
	if err == nil && result.Success {
		w.markDelivery(c, deliveryID)
	}
	return w.writeResult(c, result, err)
}

// handleEventEnvelope ingests the event-bus envelope form, unwrapping it to
// the pipeline input contract before processing.
func (w *WebhookRoutes) handleEventEnvelope(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxPayloadBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "malformed request", Details: "unreadable body"})
	}

	envelope, err := shopify.ParseEventEnvelope(body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: err.Error()})
	}

	handled, deliveryID, err := w.gate(c, envelope.Headers)
	if handled {
		return err
	}

	result, err := w.ingest.Process(c.Request().Context(), services.IngestCommand{
		Headers: envelope.Headers,
		Body:    envelope.RawBody,
		Update:  &envelope.Update,
	})
	if err == nil && result.Success {
		w.markDelivery(c, deliveryID)
	}
	return w.writeResult(c, result, err)
}

// gate short-circuits foreign topics and already-processed deliveries as
// no-op successes without touching the pipeline or the store. It never marks
// the delivery id itself; marking happens only after a fully successful
// result, so failed or partially persisted requests stay eligible for
// upstream redelivery.
func (w *WebhookRoutes) gate(c echo.Context, headers http.Header) (bool, string, error) {
	topic := shopify.ExtractTopic(headers)
	if topic != w.topic {
		w.log.InfoContext(c.Request().Context(), "ignoring webhook topic", "topic", topic)
		return true, "", c.JSON(http.StatusOK, successBody{Message: "webhook ignored", Processed: 0})
	}

	if w.dedup == nil {
		return false, "", nil
	}
	deliveryID := headers.Get(DeliveryIDHeader)
	if deliveryID == "" {
		return false, "", nil
	}
	seen, err := w.dedup.SeenDelivery(c.Request().Context(), deliveryID)
	if err != nil {
		// Dedup is best effort; reprocessing is safe because writes are
		// idempotent upserts.
		w.log.WarnContext(c.Request().Context(), "delivery dedup check failed", "error", err)
		return false, deliveryID, nil
	}
	if seen {
		w.log.InfoContext(c.Request().Context(), "skipping duplicate delivery", "delivery_id", deliveryID)
		return true, "", c.JSON(http.StatusOK, successBody{Message: "duplicate delivery", Processed: 0})
	}
	return false, deliveryID, nil
}

// markDelivery records a fully processed delivery id, best effort.
func (w *WebhookRoutes) markDelivery(c echo.Context, deliveryID string) {
	if w.dedup == nil || deliveryID == "" {
		return
	}
	if err := w.dedup.MarkDelivery(c.Request().Context(), deliveryID); err != nil {
		w.log.WarnContext(c.Request().Context(), "recording delivery id failed", "delivery_id", deliveryID, "error", err)
	}
}

func (w *WebhookRoutes) writeResult(c echo.Context, result services.Result, err error) error {
	if err != nil {
		switch services.ClassifyIngestError(err) {
		case services.IngestErrorAuthentication:
			return c.JSON(http.StatusUnauthorized, errorBody{Error: "signature verification failed", Details: "invalid or missing signature"})
		case services.IngestErrorValidation:
			return c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: err.Error()})
		default:
			w.log.ErrorContext(c.Request().Context(), "webhook processing failed", "error", err)
			return c.JSON(http.StatusInternalServerError, errorBody{Error: "internal error", Details: "unexpected failure"})
		}
	}

	if !result.Success {
		return c.JSON(http.StatusMultiStatus, errorBody{Error: "partial failure", Details: result.Errors})
	}
	return c.JSON(http.StatusOK, successBody{Message: "inventory updated", Processed: result.Processed})
}
