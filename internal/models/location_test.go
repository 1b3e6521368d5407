package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-schedule/internal/models"
)

func TestMDWidth(t *testing.T) {
	expected := map[string]int{
		models.LocationAll:  4,
		models.LocationR012: 3,
		models.LocationR0:   1,
		models.LocationR1:   1,
		models.LocationR2:   1,
		models.LocationR3:   1,
	}

	for code, width := range expected {
		w, err := models.MDWidth(code)
		assert.NoError(t, err)
		assert.Equal(t, width, w)
		assert.Contains(t, []int{1, 3, 4}, w)
	}
}

func TestMDWidthUnknownCode(t *testing.T) {
	for _, code := range []string{"", "r3", "7-r4", "2-ALL"} {
		_, err := models.MDWidth(code)
		assert.ErrorIs(t, err, models.ErrUnknownLocation)
	}
}

func TestValidLocation(t *testing.T) {
	for _, choice := range models.LocationChoices {
		assert.True(t, models.ValidLocation(choice.Code))
	}
	assert.False(t, models.ValidLocation("main-hall"))
}

func TestDayOrder(t *testing.T) {
	assert.True(t, models.Day1.Before(models.Day2))
	assert.True(t, models.Day2.Before(models.Day3))

	// Iteration over DayNames preserves the declared day order
	assert.Equal(t, []string{"Day 1", "Day 2", "Day 3"}, func() []string {
		names := make([]string, 0, len(models.DayNames))
		for _, d := range models.DayNames {
			names = append(names, d.Name)
		}
		return names
	}())
	assert.Equal(t, models.Day1, models.DayNames[0].Date)
	assert.Equal(t, models.Day3, models.DayNames[2].Date)
}
