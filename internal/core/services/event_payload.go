package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// marshalEventPayload encodes a payload once so the hub does not re-encode
// it for every connected client.
func marshalEventPayload(payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal event payload: %w", err)
	}
	return json.RawMessage(data), nil
}

// broadcastImport notifies connected dashboards that a new dataset is active.
// Failures are logged; the import itself has already committed.
func (s *TicketService) broadcastImport(ctx context.Context, imp *domain.Import) {
	payload, err := marshalEventPayload(domain.NewImportSnapshot(imp))
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode import event", "error", err)
		return
	}

	event := domain.Event{Type: domain.EventDatasetImported, Payload: payload}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.WarnContext(ctx, "failed to broadcast import", "error", err)
	}
}
