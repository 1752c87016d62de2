package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrStartInPast      = errors.New("start date cannot be in the past")
)

const dateLayout = "2006-01-02"

// StayPeriod is a half-open date interval [start, end): the guest checks in
// on start and checks out on end, so end is not an occupied night.
type StayPeriod struct {
	start time.Time
	end   time.Time
}

func NewStayPeriod(start, end time.Time) (StayPeriod, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if !start.Before(end) {
		return StayPeriod{}, ErrInvalidDateRange
	}
	return StayPeriod{start: start, end: end}, nil
}

func (p StayPeriod) Start() time.Time { return p.start }
func (p StayPeriod) End() time.Time   { return p.end }

func (p StayPeriod) Nights() int64 {
	return int64(p.end.Sub(p.start).Hours() / 24)
}

// Overlaps is the half-open interval test: back-to-back stays where one
// ends on the day the other starts do not overlap.
func (p StayPeriod) Overlaps(other StayPeriod) bool {
	return p.start.Before(other.end) && other.start.Before(p.end)
}

func (p StayPeriod) StartsBefore(t time.Time) bool {
	return p.start.Before(truncateToDate(t))
}

func (p StayPeriod) EndedBy(t time.Time) bool {
	return !p.end.After(truncateToDate(t))
}

func (p StayPeriod) ValidateNotPast(now time.Time) error {
	if p.StartsBefore(now) {
		return ErrStartInPast
	}
	return nil
}

// ToDateRange renders the period as a PostgreSQL daterange literal.
func (p StayPeriod) ToDateRange() string {
	return fmt.Sprintf("[%s,%s)", p.start.Format(dateLayout), p.end.Format(dateLayout))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 { return m.cents }

func (m Money) Units() float64 {
	return float64(m.cents) / 100.0
}
