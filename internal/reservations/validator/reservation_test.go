package validator

import (
	"testing"
	"time"

	"kartrm/pkg/model"
)

func validReservation() *model.Reservation {
	return &model.Reservation{
		RutUser:         "11111111-1",
		RutsUsers:       "12345678-5,7317855-K",
		ReservationDate: time.Date(2026, time.March, 4, 16, 0, 0, 0, time.UTC),
		LapsOrTime:      10,
		NumberPeople:    3,
	}
}

func TestValidate(t *testing.T) {
	v := NewReservationValidator()

	tests := []struct {
		name    string
		mutate  func(r *model.Reservation)
		wantErr bool
	}{
		{"valid", func(r *model.Reservation) {}, false},
		{"no extras", func(r *model.Reservation) { r.RutsUsers = "" }, false},
		{"missing owner rut", func(r *model.Reservation) { r.RutUser = "" }, true},
		{"bad owner rut", func(r *model.Reservation) { r.RutUser = "12345678-9" }, true},
		{"bad rut in list", func(r *model.Reservation) { r.RutsUsers = "12345678-5,nope" }, true},
		{"missing date", func(r *model.Reservation) { r.ReservationDate = time.Time{} }, true},
		{"zero laps", func(r *model.Reservation) { r.LapsOrTime = 0 }, true},
		{"zero people", func(r *model.Reservation) { r.NumberPeople = 0 }, true},
		{"too many people", func(r *model.Reservation) { r.NumberPeople = 16 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)
			err := v.Validate(r)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewReservationValidator()

	empty := &model.ReservationUpdate{}
	if err := v.ValidateUpdate(empty); err != nil {
		t.Errorf("empty update should pass, got: %v", err)
	}

	bad := "1-1"
	withBadList := &model.ReservationUpdate{RutsUsers: &bad}
	if err := v.ValidateUpdate(withBadList); err == nil {
		t.Error("expected validation error for invalid rut list")
	}

	people := 20
	tooMany := &model.ReservationUpdate{NumberPeople: &people}
	if err := v.ValidateUpdate(tooMany); err == nil {
		t.Error("expected validation error for oversized party")
	}
}
