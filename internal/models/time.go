package models

import (
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// Time is a registered schedule timestamp. The timestamp itself is the
// identity; registering the same instant twice yields the same row.
type Time struct {
	bun.BaseModel `bun:"table:times"`

	Value time.Time `bun:"value,pk" json:"value"`
}

func (t Time) String() string {
	return t.Value.Format("2006-01-02 15:04:05")
}

// Ordering is the result of a three-way comparison between two times.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// ErrIncomparable is returned when a comparison involves a placeholder
// time that carries no value.
var ErrIncomparable = errors.New("times are not comparable")

// CompareTimes orders two registered times by their values. A zero-valued
// placeholder never orders against anything, including another placeholder.
func CompareTimes(a, b Time) (Ordering, error) {
	if a.Value.IsZero() || b.Value.IsZero() {
		return Equal, ErrIncomparable
	}
	switch {
	case a.Value.Before(b.Value):
		return Less, nil
	case a.Value.After(b.Value):
		return Greater, nil
	default:
		return Equal, nil
	}
}
