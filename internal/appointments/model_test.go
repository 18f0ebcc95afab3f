package appointments

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointmentRequestSlot(t *testing.T) {
	req := CreateAppointmentRequest{
		OrgID:          "org-1",
		ProfessionalID: 3,
		Date:           "2025-10-25T00:00:00Z",
		StartTime:      "09:00",
		EndTime:        "10:00:00",
	}
	require.NoError(t, req.Validate())

	slot := req.Slot()
	assert.Equal(t, int64(3), slot.ProfessionalID)
	assert.Equal(t, "2025-10-25", slot.Date)
	assert.Equal(t, "09:00:00", slot.Time.Start)
	assert.Equal(t, "10:00:00", slot.Time.End)
}

func TestRescheduleRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     RescheduleRequest
		wantErr error
	}{
		{"valid", RescheduleRequest{Date: "2025-10-25", StartTime: "09:00", EndTime: "10:00"}, nil},
		{"bad date", RescheduleRequest{Date: "next tuesday", StartTime: "09:00", EndTime: "10:00"}, ErrInvalidDate},
		{"bad time", RescheduleRequest{Date: "2025-10-25", StartTime: "24:00", EndTime: "10:00"}, ErrInvalidTimeRange},
		{"inverted", RescheduleRequest{Date: "2025-10-25", StartTime: "10:00", EndTime: "09:00"}, ErrInvalidTimeRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewConfirmationCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code := newConfirmationCode()
		require.True(t, strings.HasPrefix(code, "APT-"), "unexpected code %q", code)
		assert.Len(t, code, 10)
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}
