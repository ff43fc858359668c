package validator

import (
	"testing"
	"time"

	"kartrm/pkg/model"
)

func validCustomer() *model.Customer {
	return &model.Customer{
		Name:      "Ana Soto",
		Email:     "ana@example.com",
		Rut:       "11111111-1",
		Phone:     "+56911112222",
		BirthDate: time.Date(1990, time.July, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestValidate(t *testing.T) {
	v := NewCustomerValidator()

	tests := []struct {
		name    string
		mutate  func(c *model.Customer)
		wantErr bool
	}{
		{"valid", func(c *model.Customer) {}, false},
		{"no phone", func(c *model.Customer) { c.Phone = "" }, false},
		{"missing name", func(c *model.Customer) { c.Name = "" }, true},
		{"short name", func(c *model.Customer) { c.Name = "A" }, true},
		{"bad email", func(c *model.Customer) { c.Email = "not-an-email" }, true},
		{"missing rut", func(c *model.Customer) { c.Rut = "" }, true},
		{"wrong verification digit", func(c *model.Customer) { c.Rut = "11111111-2" }, true},
		{"missing birth date", func(c *model.Customer) { c.BirthDate = time.Time{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCustomer()
			tt.mutate(c)
			err := v.Validate(c)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
