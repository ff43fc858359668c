package model

import (
	"time"
)

type Customer struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Rut       string    `json:"rut" bson:"rut" validate:"required,rut"`
	Phone     string    `json:"phone,omitempty" bson:"phone" validate:"omitempty,min=7,max=20"`
	BirthDate time.Time `json:"birth_date" bson:"birth_date" validate:"required"`
	Admin     bool      `json:"admin" bson:"admin"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type CustomerUpdate struct {
	Name      string     `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email     string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string     `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	BirthDate *time.Time `json:"birth_date,omitempty" validate:"omitempty"`
	Admin     *bool      `json:"admin,omitempty" validate:"omitempty"`
}

// IsBirthday reports whether the customer's birth month and day match the
// given date. The year is ignored.
func (c *Customer) IsBirthday(date time.Time) bool {
	return c.BirthDate.Month() == date.Month() && c.BirthDate.Day() == date.Day()
}
