package validation

import (
	"testing"
	"time"

	"project-tracker/internal/config"
	"project-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLogValidator_ValidateInterval(t *testing.T) {
	validator := NewTimeLogValidator()
	start := time.Now().Add(-2 * time.Hour)

	tests := []struct {
		name   string
		taskID int64
		start  time.Time
		end    time.Time
		field  string
	}{
		{"valid", 1, start, start.Add(time.Hour), ""},
		{"zero length", 1, start, start, ""},
		{"bad task", 0, start, start.Add(time.Hour), "taskId"},
		{"end before start", 1, start, start.Add(-time.Minute), "timeRange"},
		{"too long", 1, start.Add(-48 * time.Hour), start, "duration"},
		{"missing start", 1, time.Time{}, start, "startTime"},
		{"missing end", 1, start, time.Time{}, "endTime"},
		{"ancient start", 1, start.AddDate(-20, 0, 0), start.AddDate(-20, 0, 0).Add(time.Hour), "startTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateInterval(tt.taskID, tt.start, tt.end)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			ve := AsValidationError(err)
			require.NotNil(t, ve, "expected validation error")
			assert.NotEmpty(t, ve.GetFieldErrors(tt.field))
		})
	}
}

func TestTimeLogValidator_ConfiguredMaxDuration(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.MaxDuration = 30 * time.Minute
	validator := NewTimeLogValidatorWithConfig(cfg)
	start := time.Now().Add(-time.Hour)

	err := validator.ValidateInterval(1, start, start.Add(45*time.Minute))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "30m0s")
}

func TestTimeLogValidator_ValidateTimeLog(t *testing.T) {
	validator := NewTimeLogValidator()
	start := time.Now().Add(-time.Hour).UTC()

	log := domain.NewTimeLog(3, start, start.Add(10*time.Minute))
	assert.NoError(t, validator.ValidateTimeLog(log))

	log.DurationMs = domain.Int64Ptr(-5)
	log.Date = "yesterday"
	ve := AsValidationError(validator.ValidateTimeLog(log))
	require.NotNil(t, ve)
	assert.Len(t, ve.Errors, 2)
}
