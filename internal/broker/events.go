package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"crm-service/internal/models"
	"crm-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing CRM domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishDealCreated publishes a DealCreated event
func (ep *EventPublisher) PublishDealCreated(ctx context.Context, event *models.DealCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, dealKey(event.DealID), event)
}

// PublishDealStageChanged publishes a DealStageChanged event
func (ep *EventPublisher) PublishDealStageChanged(ctx context.Context, event *models.DealStageChangedEvent) error {
	return ep.producer.PublishEvent(ctx, dealKey(event.DealID), event)
}

// PublishDealDeleted publishes a DealDeleted event
func (ep *EventPublisher) PublishDealDeleted(ctx context.Context, event *models.DealDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, dealKey(event.DealID), event)
}

// PublishCustomerCreated publishes a CustomerCreated event
func (ep *EventPublisher) PublishCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, fmt.Sprintf("customer-%d", event.CustomerID), event)
}

func dealKey(dealID int64) string {
	return fmt.Sprintf("deal-%d", dealID)
}

// EventHandler routes incoming CRM events to registered callbacks
type EventHandler struct {
	logger             *zap.Logger
	onDealCreated      func(context.Context, *models.DealCreatedEvent) error
	onDealStageChanged func(context.Context, *models.DealStageChangedEvent) error
	onCustomerCreated  func(context.Context, *models.CustomerCreatedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.NamedLogger("events")}
}

// OnDealCreated registers a handler for DealCreated events
func (eh *EventHandler) OnDealCreated(handler func(context.Context, *models.DealCreatedEvent) error) {
	eh.onDealCreated = handler
}

// OnDealStageChanged registers a handler for DealStageChanged events
func (eh *EventHandler) OnDealStageChanged(handler func(context.Context, *models.DealStageChangedEvent) error) {
	eh.onDealStageChanged = handler
}

// OnCustomerCreated registers a handler for CustomerCreated events
func (eh *EventHandler) OnCustomerCreated(handler func(context.Context, *models.CustomerCreatedEvent) error) {
	eh.onCustomerCreated = handler
}

// HandleMessage routes messages to the appropriate handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeDealCreated:
		if eh.onDealCreated != nil {
			var event models.DealCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DealCreated event: %w", err)
			}
			return eh.onDealCreated(ctx, &event)
		}

	case models.EventTypeDealStageChanged:
		if eh.onDealStageChanged != nil {
			var event models.DealStageChangedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DealStageChanged event: %w", err)
			}
			return eh.onDealStageChanged(ctx, &event)
		}

	case models.EventTypeCustomerCreated:
		if eh.onCustomerCreated != nil {
			var event models.CustomerCreatedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal CustomerCreated event: %w", err)
			}
			return eh.onCustomerCreated(ctx, &event)
		}

	default:
		eh.logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
