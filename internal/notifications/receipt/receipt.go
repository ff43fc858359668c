package receipt

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"kartrm/internal/pricing"
	"kartrm/pkg/model"
)

// Renderer produces the plain-text voucher attached to every confirmed
// reservation. The artifact is final once rendered; the mailer ships it
// verbatim.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(reservation *model.Reservation, rows []model.BreakdownRow) ([]byte, error) {
	if reservation == nil {
		return nil, fmt.Errorf("reservation is nil")
	}

	owner := reservation.RutUser
	if len(rows) > 0 && rows[0].Name != "" {
		owner = rows[0].Name
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Comprobante de reserva\n")
	fmt.Fprintf(&buf, "======================\n\n")
	fmt.Fprintf(&buf, "Código:           RES-%s\n", reservation.ID)
	fmt.Fprintf(&buf, "Fecha y hora:     %s\n", reservation.ReservationDate.Format("02-01-2006 15:04"))
	fmt.Fprintf(&buf, "Vueltas o tiempo: %s\n", pricing.SessionLabel(reservation.LapsOrTime))
	fmt.Fprintf(&buf, "Personas:         %d\n", reservation.NumberPeople)
	fmt.Fprintf(&buf, "Reservado por:    %s\n\n", owner)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Nombre\tTarifa\tDesc. aplicado\tSubtotal\tIVA\tTotal")

	var grandTotal int64
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d%%\t%d\t%d\t%d\n",
			row.Name, row.BasePrice, row.AppliedDiscount, row.Subtotal, row.Tax, row.Total)
		grandTotal += row.Total
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render participant table: %w", err)
	}

	fmt.Fprintf(&buf, "\nTotal a pagar: %d\n", grandTotal)

	return buf.Bytes(), nil
}
