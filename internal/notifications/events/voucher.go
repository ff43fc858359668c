package events

import "time"

const (
	// EventTypeVoucherIssued is published once per recipient when a
	// reservation is created.
	EventTypeVoucherIssued = "reservation.voucher.issued"
)

// VoucherIssued is the payload the mailer consumes. Receipt carries the
// rendered artifact verbatim so the mailer needs no database access.
type VoucherIssued struct {
	ReservationID   string    `json:"reservation_id"`
	Recipient       string    `json:"recipient"`
	ReservationDate time.Time `json:"reservation_date"`
	Receipt         string    `json:"receipt"`
}
