package model

import "time"

type Kart struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Code      string    `json:"code" bson:"code" validate:"required,min=2,max=20"`
	Model     string    `json:"model,omitempty" bson:"model" validate:"omitempty,max=50"`
	Available bool      `json:"available" bson:"available"`
	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

type KartUpdate struct {
	Code      string `json:"code,omitempty" validate:"omitempty,min=2,max=20"`
	Model     string `json:"model,omitempty" validate:"omitempty,max=50"`
	Available *bool  `json:"available,omitempty"`
}
