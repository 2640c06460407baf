package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"07:30", "0 30 7 * * *", false},
		{"00:00", "0 0 0 * * *", false},
		{" 23:59 ", "0 59 23 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"7", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := buildDailySpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedulerService_Register(t *testing.T) {
	s := NewSchedulerService(time.UTC, nil)

	_, err := s.ScheduleDaily("08:00", func() {})
	require.NoError(t, err)
	_, err = s.ScheduleInterval(15*time.Minute, func() {})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Entries())

	_, err = s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleDaily("late", func() {})
	assert.Error(t, err)
	assert.Equal(t, 2, s.Entries())

	s.Start()
	s.Stop()
}
