package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/prettystyles/booking-api/internal/email"
	"github.com/prettystyles/booking-api/internal/model"
	"github.com/prettystyles/booking-api/pkg/messaging"
	"github.com/prettystyles/booking-api/pkg/metrics"
	"github.com/prettystyles/booking-api/pkg/worker"
)

// Notifier turns broker events into customer emails.
type Notifier struct {
	broker   messaging.Broker
	emailSvc email.Service
	metrics  *metrics.Metrics
}

func NewNotifier(broker messaging.Broker, emailSvc email.Service, m *metrics.Metrics) *Notifier {
	return &Notifier{
		broker:   broker,
		emailSvc: emailSvc,
		metrics:  m,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	messages, err := n.broker.Subscribe(ctx, worker.EventsChannel)
	if err != nil {
		return err
	}

	log.Info().Msg("starting notifier")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down notifier")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			n.handle(ctx, msg)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, msg []byte) {
	var event model.OutboxEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Error().Err(err).Msg("failed to decode broker message")
		return
	}

	var err error
	switch event.EventType {
	case model.EventBookingCreated, model.EventBookingRescheduled, model.EventBookingCancelled:
		err = n.handleBookingEvent(ctx, &event)
	case model.EventReviewSubmitted:
		// Reviews produce no customer email today.
	default:
		log.Warn().Str("event_type", event.EventType).Msg("unknown event type")
		return
	}

	if err != nil {
		n.metrics.NotificationsFailed.WithLabelValues(event.EventType).Inc()
		log.Error().Err(err).
			Str("event_type", event.EventType).
			Msg("failed to send notification")
		return
	}

	n.metrics.NotificationsSent.WithLabelValues(event.EventType).Inc()
}

func (n *Notifier) handleBookingEvent(ctx context.Context, event *model.OutboxEvent) error {
	var payload model.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return err
	}

	if payload.UserEmail == "" {
		log.Warn().Str("event_type", event.EventType).Msg("booking event without user email, skipping")
		return nil
	}

	switch event.EventType {
	case model.EventBookingCreated:
		return n.emailSvc.SendBookingConfirmation(ctx, &payload)
	case model.EventBookingRescheduled:
		return n.emailSvc.SendBookingRescheduled(ctx, &payload)
	default:
		return n.emailSvc.SendBookingCancelled(ctx, &payload)
	}
}
