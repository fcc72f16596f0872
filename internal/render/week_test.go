package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tutor-service/internal/model"
	"tutor-service/internal/schedule"
)

func TestWeek(t *testing.T) {
	weekStart := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC) // a Monday

	work := []schedule.Interval{
		{Start: weekStart.Add(13 * time.Hour), End: weekStart.Add(17 * time.Hour)},
		{Start: weekStart.AddDate(0, 0, 2).Add(9 * time.Hour), End: weekStart.AddDate(0, 0, 2).Add(12 * time.Hour)},
	}
	lessons := []*model.Lesson{
		{ID: 1, TeacherID: 1, StudentID: 5, Date: weekStart.Add(13*time.Hour + 30*time.Minute), Duration: 40},
	}

	png, err := Week(weekStart, work, lessons)
	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestWeekEmpty(t *testing.T) {
	weekStart := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

	png, err := Week(weekStart, nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestHourRangeStretches(t *testing.T) {
	weekStart := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

	minHour, maxHour := hourRange([]schedule.Interval{
		{Start: weekStart.Add(6 * time.Hour), End: weekStart.Add(23 * time.Hour)},
	}, nil)

	assert.Equal(t, 6, minHour)
	assert.Equal(t, 24, maxHour)
}
