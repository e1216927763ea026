package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelFor(t *testing.T) {
	tests := []struct {
		name      string
		tenantID  string
		weekStart string
		want      string
	}{
		{
			name:      "demo tenant",
			tenantID:  "demo",
			weekStart: "2024-03-04",
			want:      "tenant:demo:schedule:2024-03-04",
		},
		{
			name:      "uuid tenant",
			tenantID:  "7f7c3f0e-42c1-4d2a-9f6e-8d1a2b3c4d5e",
			weekStart: "2025-01-06",
			want:      "tenant:7f7c3f0e-42c1-4d2a-9f6e-8d1a2b3c4d5e:schedule:2025-01-06",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChannelFor(tt.tenantID, tt.weekStart)
			assert.Equal(t, tt.want, got)

			// Stable: repeated calls with the same inputs are byte-identical
			assert.Equal(t, got, ChannelFor(tt.tenantID, tt.weekStart))
		})
	}
}

func TestScheduleID(t *testing.T) {
	assert.Equal(t, "demo:2024-03-04", ScheduleID("demo", "2024-03-04"))
	assert.Equal(t, ScheduleID("demo", "2024-03-04"), ScheduleID("demo", "2024-03-04"))
}
