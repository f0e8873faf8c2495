package ledger

import (
	"testing"

	"shop-ledger/internal/pkg/money"

	"github.com/stretchr/testify/assert"
)

func TestReminderDue(t *testing.T) {
	threshold := money.FromFloat(100)

	tests := []struct {
		name string
		prev float64
		next float64
		want bool
	}{
		{"crossing from below", 50, 170, true},
		{"crossing from exactly threshold", 100, 100.01, true},
		{"staying below", 20, 80, false},
		{"landing exactly on threshold", 50, 100, false},
		{"already above stays above", 150, 170, false},
		{"dropping below", 170, 50, false},
		{"zero transition", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReminderDue(money.FromFloat(tt.prev), money.FromFloat(tt.next), threshold)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReminderDueCustomThreshold(t *testing.T) {
	threshold := money.FromFloat(500)

	assert.False(t, ReminderDue(money.FromFloat(50), money.FromFloat(170), threshold))
	assert.True(t, ReminderDue(money.FromFloat(400), money.FromFloat(520), threshold))
}
