package lrs

import "time"

// Clock supplies the ingestion time stamped onto statements. Pluggable so
// tests can pin stored/orderingKey values.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a predetermined instant, advancing by Step on every
// call so successive inserts still get distinct stored times.
type FixedClock struct {
	T    time.Time
	Step time.Duration

	calls int
}

// Now returns T advanced by calls*Step.
func (c *FixedClock) Now() time.Time {
	t := c.T.Add(time.Duration(c.calls) * c.Step)
	c.calls++
	return t
}
