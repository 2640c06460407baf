package bot

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/catalog"
	"study-planner/internal/model"
)

func TestParseDoneArgs(t *testing.T) {
	tests := []struct {
		in      string
		topic   string
		hours   float64
		wantErr bool
	}{
		{"qm-2 6", "qm-2", 6, false},
		{"  qm-2   2,5 ", "qm-2", 2.5, false},
		{"proj-1 -3", "proj-1", -3, false},
		{"qm-2", "", 0, true},
		{"qm-2 six", "", 0, true},
		{"qm-2 1 2", "", 0, true},
		{"", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			topic, hours, err := parseDoneArgs(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.topic, topic)
			assert.InDelta(t, tt.hours, hours, 1e-9)
		})
	}

	_, hours, err := parseDoneArgs("qm-2 NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(hours))
}

func TestParsePlanDate(t *testing.T) {
	now := time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC)

	got, err := parsePlanDate("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parsePlanDate(" 2024-03-15 ", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = parsePlanDate("15.03.2024", now)
	assert.Error(t, err)
}

func TestParseCallback(t *testing.T) {
	action, id, ok := parseCallback("inc:qm-2")
	assert.True(t, ok)
	assert.Equal(t, cbIncPrefix, action)
	assert.Equal(t, "qm-2", id)

	action, id, ok = parseCallback("view:quantum-mechanics")
	assert.True(t, ok)
	assert.Equal(t, cbViewPrefix, action)
	assert.Equal(t, "quantum-mechanics", id)

	_, _, ok = parseCallback("dec:")
	assert.False(t, ok)
	_, _, ok = parseCallback("complete:3")
	assert.False(t, ok)
}

func TestTopicKeyboard(t *testing.T) {
	course := model.Course{
		ID: "c", Name: "Course",
		Topics: []model.Topic{
			{ID: "t1", Name: "First", CreditHours: 4, Completed: 1},
			{ID: "t2", Name: "A very long topic name that will not fit", CreditHours: 2},
		},
	}

	kb := topicKeyboard(course)
	require.Len(t, kb.InlineKeyboard, 2)

	row := kb.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "dec:t1", *row[0].CallbackData)
	assert.Equal(t, "First 1/4", row[1].Text)
	assert.Equal(t, "view:c", *row[1].CallbackData)
	assert.Equal(t, "inc:t1", *row[2].CallbackData)

	assert.Contains(t, kb.InlineKeyboard[1][1].Text, "…")
}

func TestCourseKeyboard(t *testing.T) {
	kb := courseKeyboard(catalog.DefaultCourses())
	require.Len(t, kb.InlineKeyboard, 6)
	for _, row := range kb.InlineKeyboard {
		require.Len(t, row, 1)
		assert.LessOrEqual(t, len(*row[0].CallbackData), 64)
	}
}

func TestProgressErrorText(t *testing.T) {
	assert.Contains(t, progressErrorText(fmt.Errorf("%w: x", catalog.ErrTopicNotFound)), "Тема не найдена")
	assert.Contains(t, progressErrorText(fmt.Errorf("%w: NaN", catalog.ErrInvalidProgressValue)), "числом")
	assert.Contains(t, progressErrorText(errors.New("<db>")), "&lt;db&gt;")
}

func TestShortTitle(t *testing.T) {
	assert.Equal(t, "short", shortTitle("short", 10))
	assert.Equal(t, "abcd…", shortTitle("abcdefgh", 5))
	assert.Equal(t, "a b", shortTitle(" a\nb ", 10))
}
