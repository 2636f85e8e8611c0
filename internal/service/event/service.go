package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/internal/repository"
)

// Service records domain events into the transactional outbox. The worker
// binary drains the outbox and publishes to the message broker.
type Service struct {
	repo repository.OutboxRepository
}

func NewService(repo repository.OutboxRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return s.repo.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	})
}
