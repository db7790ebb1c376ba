package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fr0stylo/stocksync/internal/app/domain"
	"github.com/fr0stylo/stocksync/internal/app/ports"
	"github.com/fr0stylo/stocksync/internal/webhooks/shopify"
)

var (
	// ErrInvalidSignature indicates webhook signature verification failure.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMissingShopDomain indicates no tenant shop domain header was sent.
	ErrMissingShopDomain = errors.New("missing shop domain")
	// ErrInvalidPayload indicates a malformed webhook body or envelope.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrEmptyPayload indicates a well-formed body carrying zero updates.
	ErrEmptyPayload = errors.New("empty update batch")
)

// IngestErrorKind classifies ingestion failures for transport-specific mapping.
type IngestErrorKind string

const (
	// IngestErrorUnknown is used when error is nil or not classified.
	IngestErrorUnknown IngestErrorKind = "unknown"
	// IngestErrorAuthentication indicates signature verification failed.
	IngestErrorAuthentication IngestErrorKind = "authentication"
	// IngestErrorValidation indicates a malformed request or invariant violation.
	IngestErrorValidation IngestErrorKind = "validation"
)

// ClassifyIngestError classifies a returned ingestion error.
func ClassifyIngestError(err error) IngestErrorKind {
	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		return IngestErrorUnknown
	case errors.Is(err, ErrInvalidSignature):
		return IngestErrorAuthentication
	case errors.Is(err, ErrMissingShopDomain),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrEmptyPayload),
		errors.As(err, &validationErr):
		return IngestErrorValidation
	default:
		return IngestErrorUnknown
	}
}

// IngestCommand is transport-agnostic webhook ingestion input. Body holds the
// exact bytes the signature was computed over. Update is set when the
// transport adapter already unwrapped a single-update envelope; nil means Body
// carries the flat inventory_levels document.
type IngestCommand struct {
	Headers http.Header
	Body    []byte
	Update  *shopify.InventoryLevelUpdate
}

// ItemError is one per-record persistence failure, indexed by the record's
// position in the original batch.
type ItemError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result summarizes one processed webhook request.
type Result struct {
	Success   bool
	Processed int
	Errors    []ItemError
}

// IngestionService runs the webhook processing pipeline: verify, validate,
// transform, persist, summarize.
type IngestionService struct {
	store    ports.InventoryStore
	verifier Verifier
	notifier ports.ChangeNotifier
	log      *slog.Logger
}

// NewIngestionService constructs the pipeline. notifier may be nil when
// outbound change notifications are not configured.
func NewIngestionService(store ports.InventoryStore, verifier Verifier, notifier ports.ChangeNotifier, log *slog.Logger) *IngestionService {
	if log == nil {
		log = slog.Default()
	}
	return &IngestionService{store: store, verifier: verifier, notifier: notifier, log: log}
}

// Process runs one webhook request to completion. Authentication and
// validation failures are returned as errors and abort the whole request;
// persistence failures surface as per-item entries in the Result instead.
func (s *IngestionService) Process(ctx context.Context, cmd IngestCommand) (Result, error) {
	signature := shopify.ExtractSignature(cmd.Headers)
	if !s.verifier.Verify(cmd.Body, signature) {
		s.log.WarnContext(ctx, "webhook signature verification failed",
			"signature_present", signature != "",
			"body_bytes", len(cmd.Body))
		return Result{}, ErrInvalidSignature
	}

	shopName, err := shopify.ExtractShopDomain(cmd.Headers)
	if err != nil {
		return Result{}, ErrMissingShopDomain
	}

	updates, err := s.resolveUpdates(cmd)
	if err != nil {
		return Result{}, err
	}
	if len(updates) == 0 {
		return Result{}, ErrEmptyPayload
	}

	records, err := transform(shopName, updates)
	if err != nil {
		return Result{}, err
	}

	result, persisted := s.persist(ctx, records)
	s.notify(ctx, shopName, persisted)
	return result, nil
}

func (s *IngestionService) resolveUpdates(cmd IngestCommand) ([]shopify.InventoryLevelUpdate, error) {
	if cmd.Update != nil {
		return []shopify.InventoryLevelUpdate{*cmd.Update}, nil
	}
	updates, err := shopify.ParseInventoryLevels(cmd.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return updates, nil
}

// transform is all-or-nothing: a single invalid update aborts the batch
// before anything is persisted.
func transform(shopName string, updates []shopify.InventoryLevelUpdate) ([]domain.InventoryRecord, error) {
	records := make([]domain.InventoryRecord, 0, len(updates))
	for i, update := range updates {
		record, err := domain.NewInventoryRecord(domain.NewInventoryRecordParams{
			ShopName:        shopName,
			VariantID:       update.InventoryItemID,
			LocationID:      update.LocationID,
			Available:       update.Available,
			UpdatedAt:       update.UpdatedAt,
			InventoryItemID: update.InventoryItemID,
		})
		if err != nil {
			return nil, fmt.Errorf("update %d: %w", i, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// persist attempts one bulk save, falling back to sequential individual saves
// in original order to recover partial progress with per-item diagnostics.
func (s *IngestionService) persist(ctx context.Context, records []domain.InventoryRecord) (Result, []domain.InventoryRecord) {
	bulkErr := s.store.SaveBatch(ctx, records)
	if bulkErr == nil {
		return Result{Success: true, Processed: len(records)}, records
	}
	s.log.WarnContext(ctx, "bulk save failed, retrying records individually",
		"records", len(records), "error", bulkErr)

	var itemErrors []ItemError
	persisted := make([]domain.InventoryRecord, 0, len(records))
	for i, record := range records {
		if err := s.store.Save(ctx, record); err != nil {
			itemErrors = append(itemErrors, ItemError{Index: i, Reason: err.Error()})
			continue
		}
		persisted = append(persisted, record)
	}
	return Result{Success: len(itemErrors) == 0, Processed: len(persisted), Errors: itemErrors}, persisted
}

func (s *IngestionService) notify(ctx context.Context, shopName string, records []domain.InventoryRecord) {
	if s.notifier == nil || len(records) == 0 {
		return
	}
	keys := make([]string, 0, len(records))
	for _, record := range records {
		keys = append(keys, record.CompositeKey())
	}
	if err := s.notifier.PublishInventoryUpdated(ctx, shopName, keys); err != nil {
		s.log.WarnContext(ctx, "change notification failed", "shop", shopName, "error", err)
	}
}
