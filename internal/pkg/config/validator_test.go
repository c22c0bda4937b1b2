package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "daily at 05:30", schedule: "30 5 * * *", wantErr: false},
		{name: "every six hours", schedule: "0 */6 * * *", wantErr: false},
		{name: "weekdays", schedule: "30 9 * * 1-5", wantErr: false},
		{name: "empty", schedule: "", wantErr: true},
		{name: "too few fields", schedule: "30 5 *", wantErr: true},
		{name: "minute out of range", schedule: "99 5 * * *", wantErr: true},
		{name: "garbage", schedule: "not a cron", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimezone(t *testing.T) {
	assert.NoError(t, ValidateTimezone("UTC"))
	assert.NoError(t, ValidateTimezone("Asia/Seoul"))
	assert.Error(t, ValidateTimezone(""))
	assert.Error(t, ValidateTimezone("Mars/Olympus"))
	assert.Error(t, ValidateTimezone("+09:00"))
}

func TestDurationRange(t *testing.T) {
	validate := DurationRange(time.Second, time.Minute)
	assert.NoError(t, validate(time.Second))
	assert.NoError(t, validate(30*time.Second))
	assert.NoError(t, validate(time.Minute))
	assert.Error(t, validate(500*time.Millisecond))
	assert.Error(t, validate(2*time.Minute))
}

func TestIntRange(t *testing.T) {
	validate := IntRange(5, 15)
	assert.NoError(t, validate(5))
	assert.NoError(t, validate(15))
	assert.Error(t, validate(4))
	assert.Error(t, validate(16))
}

func TestPositiveDuration(t *testing.T) {
	assert.NoError(t, PositiveDuration(time.Nanosecond))
	assert.Error(t, PositiveDuration(0))
	assert.Error(t, PositiveDuration(-time.Second))
}
