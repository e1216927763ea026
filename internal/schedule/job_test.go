package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr bool
	}{
		{
			name: "valid request",
			req:  GenerationRequest{TenantID: "demo", WeekStart: "2024-03-04"},
		},
		{
			name:    "empty tenant",
			req:     GenerationRequest{TenantID: "", WeekStart: "2024-03-04"},
			wantErr: true,
		},
		{
			name:    "empty week",
			req:     GenerationRequest{TenantID: "demo", WeekStart: ""},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidJob)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
