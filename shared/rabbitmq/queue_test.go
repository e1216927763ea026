package rabbitmq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosterly/rosterly-be/internal/schedule"
)

func TestValidateEnqueue(t *testing.T) {
	tests := []struct {
		name      string
		queueName string
		jobName   string
		opts      *schedule.EnqueueOptions
		wantErr   bool
	}{
		{
			name:      "valid without options",
			queueName: "scheduling",
			jobName:   "generate",
		},
		{
			name:      "valid with delay and repeat",
			queueName: "scheduling",
			jobName:   "generate",
			opts:      &schedule.EnqueueOptions{Delay: 5 * time.Second, Repeat: "0 6 * * 1"},
		},
		{
			name:      "empty queue name",
			queueName: "",
			jobName:   "generate",
			wantErr:   true,
		},
		{
			name:      "empty job name",
			queueName: "scheduling",
			jobName:   "",
			wantErr:   true,
		},
		{
			name:      "negative delay",
			queueName: "scheduling",
			jobName:   "generate",
			opts:      &schedule.EnqueueOptions{Delay: -time.Second},
			wantErr:   true,
		},
		{
			name:      "malformed repeat spec",
			queueName: "scheduling",
			jobName:   "generate",
			opts:      &schedule.EnqueueOptions{Repeat: "every monday"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEnqueue(tt.queueName, tt.jobName, tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, schedule.ErrInvalidJob)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExpirationMillis(t *testing.T) {
	assert.Equal(t, "1500", expirationMillis(1500*time.Millisecond))
	assert.Equal(t, "60000", expirationMillis(time.Minute))
}

func TestWaitQueueName(t *testing.T) {
	assert.Equal(t, "scheduling.wait", waitQueueName("scheduling"))
}
