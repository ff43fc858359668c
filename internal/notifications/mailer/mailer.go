package mailer

import (
	"context"
	"fmt"

	"kartrm/internal/notifications/events"
	"kartrm/pkg/kafka"
	"kartrm/pkg/logger"
)

// Sender dispatches a rendered voucher to one recipient. The transport
// behind it is deliberately out of scope here; production wires an SMTP or
// provider-backed implementation.
type Sender interface {
	Send(ctx context.Context, recipient string, subject string, body []byte) error
}

// LogSender records the send instead of performing it. It is the default
// when no mail transport is configured.
type LogSender struct {
	Log *logger.Logger
}

func (s *LogSender) Send(_ context.Context, recipient string, subject string, body []byte) error {
	s.Log.Info("Voucher mail dispatched",
		"recipient", recipient,
		"subject", subject,
		"bytes", len(body),
	)
	return nil
}

// Handler consumes voucher events and forwards each to the sender. Unknown
// event types are committed without action.
type Handler struct {
	sender Sender
	log    *logger.Logger
}

func NewHandler(sender Sender, log *logger.Logger) *Handler {
	return &Handler{
		sender: sender,
		log:    log,
	}
}

func (h *Handler) Handle(ctx context.Context, msg kafka.Message) error {
	if msg.GetEventType() != events.EventTypeVoucherIssued {
		h.log.Debug("Skipping unhandled event type",
			"event_type", msg.GetEventType(),
			"event_id", msg.GetEventID(),
		)
		return nil
	}

	var voucher events.VoucherIssued
	if err := msg.DecodeValue(&voucher); err != nil {
		// A malformed payload will never decode on redelivery either;
		// log and commit.
		h.log.Error("Failed to decode voucher event",
			"event_id", msg.GetEventID(),
			"error", err,
		)
		return nil
	}

	subject := fmt.Sprintf("Comprobante de reserva RES-%s", voucher.ReservationID)
	if err := h.sender.Send(ctx, voucher.Recipient, subject, []byte(voucher.Receipt)); err != nil {
		h.log.Error("Failed to send voucher mail",
			"reservation_id", voucher.ReservationID,
			"recipient", voucher.Recipient,
			"error", err,
		)
		return fmt.Errorf("failed to send voucher to %s: %w", voucher.Recipient, err)
	}

	return nil
}
