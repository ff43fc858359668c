package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBasePrice(t *testing.T) {
	tests := []struct {
		code int
		want float64
	}{
		{10, 15000},
		{15, 20000},
		{20, 25000},
		{25, 0},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BasePrice(tt.code), "code %d", tt.code)
	}
}

func TestSessionDuration(t *testing.T) {
	tests := []struct {
		code int
		want time.Duration
	}{
		{10, 30 * time.Minute},
		{15, 35 * time.Minute},
		{20, 40 * time.Minute},
		{12, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SessionDuration(tt.code), "code %d", tt.code)
	}
}

func TestDisplayDuration(t *testing.T) {
	tests := []struct {
		code int
		want time.Duration
	}{
		{10, 30 * time.Minute},
		{15, 35 * time.Minute},
		{20, 40 * time.Minute},
		{12, 32 * time.Minute}, // unknown codes fall back to code+20
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayDuration(tt.code), "code %d", tt.code)
	}
}
