package models

import (
	"errors"
	"fmt"
	"time"
)

// Location codes. The numeric prefix fixes the display order of the rooms
// across the venue; "all" and "r012" span multiple rooms.
const (
	LocationR3   = "1-r3"
	LocationAll  = "2-all"
	LocationR012 = "3-r012"
	LocationR0   = "4-r0"
	LocationR1   = "5-r1"
	LocationR2   = "6-r2"
)

// ErrUnknownLocation is returned for a code outside the fixed taxonomy.
var ErrUnknownLocation = errors.New("unknown location")

// LocationChoice pairs a location code with its human label.
type LocationChoice struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// LocationChoices lists the taxonomy in display order.
var LocationChoices = []LocationChoice{
	{Code: LocationAll, Label: "All rooms"},
	{Code: LocationR012, Label: "R0, R1, R2"},
	{Code: LocationR0, Label: "R0"},
	{Code: LocationR1, Label: "R1"},
	{Code: LocationR2, Label: "R2"},
	{Code: LocationR3, Label: "R3"},
}

// mdWidths maps each location to the number of 12-grid columns a cell for
// it occupies in the rendered schedule table.
var mdWidths = map[string]int{
	LocationAll:  4,
	LocationR012: 3,
	LocationR0:   1,
	LocationR1:   1,
	LocationR2:   1,
	LocationR3:   1,
}

// MDWidth returns the grid width for a location code.
func MDWidth(code string) (int, error) {
	width, ok := mdWidths[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLocation, code)
	}
	return width, nil
}

// ValidLocation reports whether code belongs to the taxonomy.
func ValidLocation(code string) bool {
	_, ok := mdWidths[code]
	return ok
}

// Conference days.
var (
	Day1 = time.Date(2016, 6, 3, 0, 0, 0, 0, time.UTC)
	Day2 = time.Date(2016, 6, 4, 0, 0, 0, 0, time.UTC)
	Day3 = time.Date(2016, 6, 5, 0, 0, 0, 0, time.UTC)
)

// DayName pairs a conference date with its display name.
type DayName struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// DayNames lists the conference days in chronological order.
var DayNames = []DayName{
	{Date: Day1, Name: "Day 1"},
	{Date: Day2, Name: "Day 2"},
	{Date: Day3, Name: "Day 3"},
}
