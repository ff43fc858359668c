package courier

import (
	"context"
	"fmt"

	"kartrm/internal/notifications/events"
	"kartrm/pkg/config"
	"kartrm/pkg/kafka"
	"kartrm/pkg/model"
)

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaCourier publishes one voucher event per recipient. Delivery stops at
// the first failed publish so a broker outage surfaces immediately instead
// of half-notifying the party.
type KafkaCourier struct {
	producer publisher
	cfg      *config.Config
}

func NewKafkaCourier(producer *kafka.Producer, cfg *config.Config) *KafkaCourier {
	return &KafkaCourier{
		producer: producer,
		cfg:      cfg,
	}
}

func (c *KafkaCourier) Deliver(ctx context.Context, reservation *model.Reservation, recipients []string, receipt []byte) error {
	for _, recipient := range recipients {
		msg := kafka.NewMessage().
			WithKey(reservation.ID).
			WithEventType(events.EventTypeVoucherIssued).
			WithCorrelationID(reservation.ID).
			WithSource("kartrm-server").
			WithValue(events.VoucherIssued{
				ReservationID:   reservation.ID,
				Recipient:       recipient,
				ReservationDate: reservation.ReservationDate,
				Receipt:         string(receipt),
			}).
			Build()

		if err := c.producer.Publish(ctx, msg); err != nil {
			return fmt.Errorf("failed to publish voucher for %s: %w", recipient, err)
		}

		c.cfg.Log.Debug("Voucher event published",
			"reservation_id", reservation.ID,
			"recipient", recipient,
		)
	}

	return nil
}
