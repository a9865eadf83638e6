package worker

import (
	"context"
	"fmt"
	"time"

	"crm-service/internal/broker"
	"crm-service/internal/models"
	"crm-service/internal/redisclient"
	"crm-service/internal/service"
	"crm-service/internal/store"
	"crm-service/internal/util"

	"go.uber.org/zap"
)

// NotificationWorker consumes CRM events and turns them into outbound
// notifications and audit log entries
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	store        *store.Store
	sms          *service.SMSService
	logger       *zap.Logger
}

// NewNotificationWorker creates a worker wired to deal and customer events
func NewNotificationWorker(
	consumer *broker.Consumer,
	store *store.Store,
	sms *service.SMSService,
) *NotificationWorker {
	w := &NotificationWorker{
		consumer: consumer,
		store:    store,
		sms:      sms,
		logger:   util.NamedLogger("notifications"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnDealCreated(w.handleDealCreated)
	eventHandler.OnDealStageChanged(w.handleDealStageChanged)
	eventHandler.OnCustomerCreated(w.handleCustomerCreated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

// handleDealCreated records new deals in the audit log
func (w *NotificationWorker) handleDealCreated(ctx context.Context, event *models.DealCreatedEvent) error {
	msg := fmt.Sprintf("Deal %q created at stage %s", event.Title, event.Stage)
	return w.store.AddSystemLog(ctx, "info", msg, nil, "")
}

// handleDealStageChanged notifies the customer when their deal closes won
func (w *NotificationWorker) handleDealStageChanged(ctx context.Context, event *models.DealStageChangedEvent) error {
	msg := fmt.Sprintf("Deal %q moved from %s to %s", event.Title, event.FromStage, event.ToStage)
	if err := w.store.AddSystemLog(ctx, "info", msg, nil, ""); err != nil {
		w.logger.Warn("Failed to record stage change", zap.Error(err))
	}

	if event.ToStage != models.StageClosedWon || event.CustomerID == nil {
		return nil
	}

	customer, err := w.store.GetCustomerByID(ctx, *event.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to load customer for won deal: %w", err)
	}
	if customer.Contacts == "" {
		return nil
	}

	text := fmt.Sprintf("Good news! Your deal %q has been closed successfully.", event.Title)
	if err := w.sms.Send(ctx, text, []string{customer.Contacts}); err != nil {
		// SMS failure must not requeue the event; the attempt is recorded
		w.logger.Error("Failed to send won-deal SMS",
			zap.Int64("deal_id", event.DealID),
			zap.Error(err))
	}
	return nil
}

// handleCustomerCreated records new customers in the audit log
func (w *NotificationWorker) handleCustomerCreated(ctx context.Context, event *models.CustomerCreatedEvent) error {
	msg := fmt.Sprintf("Customer %s added for service %s", event.Username, event.Service)
	return w.store.AddSystemLog(ctx, "info", msg, nil, "")
}

// ReminderWorker periodically sends SMS reminders for deals whose deadline
// is approaching. Redis dedupe keeps it to one reminder per deal per day.
type ReminderWorker struct {
	deals    *service.DealService
	store    *store.Store
	redis    *redisclient.Client
	sms      *service.SMSService
	interval time.Duration
	logger   *zap.Logger
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	deals *service.DealService,
	store *store.Store,
	redis *redisclient.Client,
	sms *service.SMSService,
	interval time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		deals:    deals,
		store:    store,
		redis:    redis,
		sms:      sms,
		interval: interval,
		logger:   util.NamedLogger("reminders"),
	}
}

// Start runs the reminder loop until the context is cancelled
func (w *ReminderWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting reminder worker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reminder worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.logger.Error("Reminder sweep failed", zap.Error(err))
			}
		}
	}
}

func (w *ReminderWorker) runOnce(ctx context.Context) error {
	deals, err := w.deals.DealsNearingDeadline(ctx)
	if err != nil {
		return fmt.Errorf("failed to load deals nearing deadline: %w", err)
	}

	day := time.Now().Format("2006-01-02")
	for _, deal := range deals {
		fresh, err := w.redis.MarkReminderSent(ctx, deal.ID, day, 48*time.Hour)
		if err != nil {
			w.logger.Warn("Reminder dedupe unavailable, skipping deal",
				zap.Int64("deal_id", deal.ID),
				zap.Error(err))
			continue
		}
		if !fresh {
			continue
		}

		if err := w.notify(ctx, deal); err != nil {
			w.logger.Error("Failed to send deadline reminder",
				zap.Int64("deal_id", deal.ID),
				zap.Error(err))
			continue
		}
		util.RemindersSentTotal.Inc()
	}

	return nil
}

func (w *ReminderWorker) notify(ctx context.Context, deal models.Deal) error {
	if deal.CustomerID == nil || deal.DeadLine == nil {
		return nil
	}

	customer, err := w.store.GetCustomerByID(ctx, *deal.CustomerID)
	if err != nil {
		return err
	}
	if customer.Contacts == "" {
		return nil
	}

	text := fmt.Sprintf("Reminder: deal %q is due on %s.",
		deal.Title, deal.DeadLine.Format("2006-01-02"))
	return w.sms.Send(ctx, text, []string{customer.Contacts})
}
