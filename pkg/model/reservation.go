package model

import (
	"time"
)

// Reservation is a booked kart session. RutsUsers carries the extra
// participants as a comma-delimited rut list, exactly as submitted; the
// owner's rut is not repeated there. GroupDetail is the serialized
// per-participant price breakdown, written once at creation time and never
// recomputed.
type Reservation struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RutUser         string    `json:"rut_user" bson:"rut_user" validate:"required,rut"`
	RutsUsers       string    `json:"ruts_users" bson:"ruts_users" validate:"omitempty,rut_list"`
	ReservationDate time.Time `json:"reservation_date" bson:"reservation_date" validate:"required"`
	LapsOrTime      int       `json:"laps_or_time" bson:"laps_or_time" validate:"required,min=1"`
	NumberPeople    int       `json:"number_people" bson:"number_people" validate:"required,min=1,max=15"`
	GroupDetail     string    `json:"group_detail,omitempty" bson:"group_detail,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type ReservationUpdate struct {
	RutsUsers       *string    `json:"ruts_users,omitempty" validate:"omitempty,rut_list"`
	ReservationDate *time.Time `json:"reservation_date,omitempty" validate:"omitempty"`
	LapsOrTime      *int       `json:"laps_or_time,omitempty" validate:"omitempty,min=1"`
	NumberPeople    *int       `json:"number_people,omitempty" validate:"omitempty,min=1,max=15"`
}

// ScheduleEntry is the calendar-view projection of a reservation.
type ScheduleEntry struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Title string    `json:"title"`
}
