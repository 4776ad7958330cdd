package domain

import (
	"fmt"
	"time"
)

// Kind identifies a step-up rule. The numeric values are persisted.
type Kind uint8

const (
	Always Kind = iota
	Never
	OnMax
	Random
	CounterResetOnMax
	CounterResetOnTime
	CounterWithTimeWindow
	DeactivateForGeneralWhiteList
	DeactivateForUserSpecificWhiteList
)

var kindNames = [...]string{
	Always:                             "always",
	Never:                              "never",
	OnMax:                              "on_max",
	Random:                             "random",
	CounterResetOnMax:                  "counter_reset_on_max",
	CounterResetOnTime:                 "counter_reset_on_time",
	CounterWithTimeWindow:              "counter_with_time_window",
	DeactivateForGeneralWhiteList:      "deactivate_for_general_whitelist",
	DeactivateForUserSpecificWhiteList: "deactivate_for_user_specific_whitelist",
}

// Valid reports whether k is a known rule.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, ErrInvalidFunction
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return ErrInvalidFunction
}

// Unit is the time unit of a rule window.
type Unit uint8

const (
	Seconds Unit = iota
	Minutes
	Hours
	Days
	Weeks
)

var unitNames = [...]string{
	Seconds: "seconds",
	Minutes: "minutes",
	Hours:   "hours",
	Days:    "days",
	Weeks:   "weeks",
}

var unitDurations = [...]time.Duration{
	Seconds: time.Second,
	Minutes: time.Minute,
	Hours:   time.Hour,
	Days:    24 * time.Hour,
	Weeks:   7 * 24 * time.Hour,
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	return int(u) < len(unitNames)
}

func (u Unit) String() string {
	if !u.Valid() {
		return fmt.Sprintf("unit(%d)", uint8(u))
	}
	return unitNames[u]
}

// MarshalText implements encoding.TextMarshaler.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, ErrInvalidFunction
	}
	return []byte(unitNames[u]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *Unit) UnmarshalText(b []byte) error {
	for i, name := range unitNames {
		if name == string(b) {
			*u = Unit(i)
			return nil
		}
	}
	return ErrInvalidFunction
}

// Window is a count of units, used by the counter rules.
type Window struct {
	Unit  Unit  `json:"unit"`
	Value uint8 `json:"value"`
}

// Duration converts the window to a time.Duration.
func (w Window) Duration() time.Duration {
	if !w.Unit.Valid() {
		return 0
	}
	return time.Duration(w.Value) * unitDurations[w.Unit]
}

// Function is one step-up rule. Max is used by OnMax and the counter rules,
// Window by the time-based counter rules.
type Function struct {
	Kind   Kind   `json:"kind"`
	Max    uint64 `json:"max,omitempty"`
	Window Window `json:"window"`
}

// Validate rejects unknown kinds and units.
func (f Function) Validate() error {
	if !f.Kind.Valid() || !f.Window.Unit.Valid() {
		return ErrInvalidFunction
	}
	return nil
}

// Evaluate reports whether this rule alone calls for step-up approval.
// Reserved kinds have no implemented semantics and always require approval.
func (f Function) Evaluate(amount uint64) bool {
	switch f.Kind {
	case Never:
		return false
	case OnMax:
		return amount >= f.Max
	default:
		return true
	}
}

// RequiresStepUp is the conjunction of every rule. An empty list requires approval.
func RequiresStepUp(amount uint64, functions []Function) bool {
	for _, f := range functions {
		if !f.Evaluate(amount) {
			return false
		}
	}
	return true
}
