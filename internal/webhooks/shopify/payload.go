package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// TopicInventoryLevelsUpdate is the only topic this service reconciles.
const TopicInventoryLevelsUpdate = "inventory_levels/update"

var (
	// ErrMalformedJSON indicates the raw body is not valid JSON.
	ErrMalformedJSON = errors.New("body is not valid json")
	// ErrMalformedPayload indicates valid JSON with the wrong structure.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMalformedEnvelope indicates an event envelope with the wrong structure.
	ErrMalformedEnvelope = errors.New("malformed event envelope")
)

// InventoryLevelUpdate is the wire DTO for one inventory level change.
type InventoryLevelUpdate struct {
	InventoryItemID int64  `json:"inventory_item_id"`
	LocationID      int64  `json:"location_id"`
	Available       int64  `json:"available"`
	UpdatedAt       string `json:"updated_at"`
}

// rawLevel uses pointer fields so absent and mistyped fields are
// distinguishable from zero values.
type rawLevel struct {
	InventoryItemID *int64  `json:"inventory_item_id"`
	LocationID      *int64  `json:"location_id"`
	Available       *int64  `json:"available"`
	UpdatedAt       *string `json:"updated_at"`
}

// ParseInventoryLevels parses the flat webhook body shape
// {"inventory_levels": [...]} into typed update DTOs.
func ParseInventoryLevels(rawBody []byte) ([]InventoryLevelUpdate, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}

	levelsRaw, ok := doc["inventory_levels"]
	if !ok {
		return nil, fmt.Errorf("%w: missing inventory_levels field", ErrMalformedPayload)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(levelsRaw, &elements); err != nil {
		return nil, fmt.Errorf("%w: inventory_levels is not an array", ErrMalformedPayload)
	}

	updates := make([]InventoryLevelUpdate, 0, len(elements))
	for i, element := range elements {
		update, err := parseLevelElement(element)
		if err != nil {
			return nil, fmt.Errorf("%w: inventory_levels[%d]: %v", ErrMalformedPayload, i, err)
		}
		updates = append(updates, update)
	}
	return updates, nil
}

func parseLevelElement(element json.RawMessage) (InventoryLevelUpdate, error) {
	var raw rawLevel
	if err := json.Unmarshal(element, &raw); err != nil {
		return InventoryLevelUpdate{}, fmt.Errorf("not a valid inventory level object: %v", err)
	}
	switch {
	case raw.InventoryItemID == nil:
		return InventoryLevelUpdate{}, errors.New("missing integer field inventory_item_id")
	case raw.LocationID == nil:
		return InventoryLevelUpdate{}, errors.New("missing integer field location_id")
	case raw.Available == nil:
		return InventoryLevelUpdate{}, errors.New("missing integer field available")
	case raw.UpdatedAt == nil:
		return InventoryLevelUpdate{}, errors.New("missing string field updated_at")
	}
	return InventoryLevelUpdate{
		InventoryItemID: *raw.InventoryItemID,
		LocationID:      *raw.LocationID,
		Available:       *raw.Available,
		UpdatedAt:       *raw.UpdatedAt,
	}, nil
}

// EnvelopePayload is one event-bus delivery mapped to the pipeline input
// contract: the single parsed update, header-equivalent metadata, and the
// raw payload bytes the signature was computed over.
type EnvelopePayload struct {
	Update  InventoryLevelUpdate
	Headers http.Header
	RawBody []byte
}

type eventEnvelope struct {
	Detail *struct {
		Payload  json.RawMessage   `json:"payload"`
		Metadata map[string]string `json:"metadata"`
	} `json:"detail"`
}

// ParseEventEnvelope parses an event-bus envelope whose detail carries a
// single inventory update payload plus header-equivalent metadata.
func ParseEventEnvelope(raw []byte) (EnvelopePayload, error) {
	var envelope eventEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return EnvelopePayload{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if envelope.Detail == nil {
		return EnvelopePayload{}, fmt.Errorf("%w: missing detail object", ErrMalformedEnvelope)
	}
	if len(envelope.Detail.Payload) == 0 {
		return EnvelopePayload{}, fmt.Errorf("%w: missing detail.payload", ErrMalformedEnvelope)
	}
	if envelope.Detail.Metadata == nil {
		return EnvelopePayload{}, fmt.Errorf("%w: missing detail.metadata", ErrMalformedEnvelope)
	}

	update, err := parseLevelElement(envelope.Detail.Payload)
	if err != nil {
		return EnvelopePayload{}, fmt.Errorf("%w: detail.payload: %v", ErrMalformedEnvelope, err)
	}

	headers := http.Header{}
	for key, value := range envelope.Detail.Metadata {
		headers.Set(key, value)
	}

	return EnvelopePayload{
		Update:  update,
		Headers: headers,
		RawBody: []byte(envelope.Detail.Payload),
	}, nil
}
