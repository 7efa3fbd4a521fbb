// Package clock provides an injectable time source so billing timestamps can
// be controlled in tests.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock yields the current time in UTC.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// NewSystemClock returns the wall clock.
func NewSystemClock() Clock { return systemClock{} }

// Module provides the system clock.
var Module = fx.Provide(NewSystemClock)
