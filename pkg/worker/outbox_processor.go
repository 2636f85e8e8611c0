package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/prettystyles/booking-api/internal/repository"
	"github.com/prettystyles/booking-api/pkg/messaging"
	"github.com/prettystyles/booking-api/pkg/metrics"
)

// EventsChannel is the broker channel the API's domain events flow through.
const EventsChannel = "salon.events"

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
}

// OutboxProcessor drains pending outbox events into the message broker.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	metrics *metrics.Metrics
}

func NewOutboxProcessor(repo repository.OutboxRepository, broker messaging.Broker,
	config OutboxProcessorConfig, m *metrics.Metrics) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		metrics: m,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	log.Info().Msg("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				log.Error().Err(err).Msg("failed to process outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	events, err := p.repo.GetPendingEvents(ctx, p.config.BatchSize)
	if err != nil {
		return err
	}

	for _, event := range events {
		start := time.Now()

		if err := p.broker.Publish(ctx, EventsChannel, event); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				log.Error().Err(markErr).
					Str("event_id", event.ID.String()).
					Msg("failed to mark event failed")
			}
			continue
		}

		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			log.Error().Err(err).
				Str("event_id", event.ID.String()).
				Msg("failed to mark event processed")
			continue
		}

		p.metrics.OutboxEventsProcessed.Inc()
		p.metrics.OutboxProcessingLatency.Observe(time.Since(start).Seconds())
	}

	return nil
}
