package ledger

import "time"

// Clock supplies the capture timestamps written into Records and
// journal events. Injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

// systemClock is the production clock.
type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}
