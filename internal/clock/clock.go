// Package clock abstracts the current-date provider so birthday and age
// logic is testable without real-time dependency.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test helper.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }
