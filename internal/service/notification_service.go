package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/events"
	"github.com/spec-kit/trailer-admin/internal/notify"
)

// EventCounter receives per-event counts.
type EventCounter interface {
	IncEvent(name string, delta int64)
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notify.Mailer
	recipients []string
	counter    EventCounter
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notify.Mailer, recipients []string, counter EventCounter, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		recipients: recipients,
		counter:    counter,
		logger:     defaultLogger(logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTaskAssigned, n.handleLogged)
	n.dispatcher.Subscribe(events.EventTaskStatusChanged, n.handleLogged)
	n.dispatcher.Subscribe(events.EventInsuranceVerified, n.handleLogged)
	n.dispatcher.Subscribe(events.EventInsuranceRejected, n.handleLogged)
	n.dispatcher.Subscribe(events.EventInsuranceReminderDue, n.handleReminderDue)
}

func (n *NotificationService) count(event events.Event) {
	if n.counter != nil {
		n.counter.IncEvent(string(event.Type), 1)
	}
}

func (n *NotificationService) handleLogged(_ context.Context, event events.Event) error {
	n.count(event)
	n.logger.Info(string(event.Type),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleReminderDue(ctx context.Context, event events.Event) error {
	n.count(event)
	payload, ok := event.Payload.(events.InsuranceReminderPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}

	if payload.NotifyBySMS {
		n.sendSMSStub(event, payload)
	}
	// The SMS stub does not deliver, so only email counts as a sent reminder.
	if !payload.NotifyByEmail {
		return fmt.Errorf("reminder for %s: %w", event.EntityID, notify.ErrNoChannel)
	}
	if len(n.recipients) == 0 || n.mailer == nil {
		return fmt.Errorf("reminder for %s: %w", event.EntityID, notify.ErrNoRecipients)
	}

	email, err := notify.ReminderEmail(n.recipients, notify.ReminderData{
		PolicyNumber:    payload.PolicyNumber,
		Provider:        payload.Provider,
		TrailerID:       payload.TrailerID,
		ExpiryDate:      payload.ExpiryDate,
		DaysUntilExpiry: payload.DaysUntilExpiry,
	})
	if err != nil {
		return fmt.Errorf("render reminder: %w", err)
	}
	if err := n.mailer.Send(ctx, email); err != nil {
		return err
	}
	n.logger.Info("insurance reminder sent",
		zap.String("policy_id", event.EntityID),
		zap.String("policy_number", payload.PolicyNumber),
		zap.Int("days_until_expiry", payload.DaysUntilExpiry))
	return nil
}

func (n *NotificationService) sendSMSStub(event events.Event, payload events.InsuranceReminderPayload) {
	n.logger.Debug("sendSMSStub",
		zap.String("policy_id", event.EntityID),
		zap.String("policy_number", payload.PolicyNumber))
}
