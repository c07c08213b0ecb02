package tvcontrol

import (
	"fmt"
	"sort"
	"time"
)

// Synthetic action names. These resolve to behaviour rather than sequences:
// ActionTurnOn sends a wake signal only, ActionTurnOff invokes the TV's
// power-off capability.
const (
	ActionTurnOn  = "turn_on"
	ActionTurnOff = "turn_off"
)

// Catalog is the static mapping from action names to sequences.
//
// A catalog is validated once at construction; execution never re-validates
// steps. Catalogs are immutable after construction and safe for concurrent
// reads.
type Catalog struct {
	sequences map[string]Sequence
}

// NewCatalog builds a catalog from named sequences.
//
// Validation rules:
//   - names must not collide with the synthetic turn_on/turn_off actions
//   - every sequence must have at least one step
//   - every step must have a known kind, a non-empty value, and a
//     non-negative delay
//
// Parameters:
//   - sequences: Named sequences to register
//
// Returns:
//   - *Catalog: Validated catalog
//   - error: Describing the first validation failure
func NewCatalog(sequences map[string]Sequence) (*Catalog, error) {
	for name, seq := range sequences {
		if name == ActionTurnOn || name == ActionTurnOff {
			return nil, fmt.Errorf("%w: %q", ErrReservedName, name)
		}
		if len(seq) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptySequence, name)
		}
		for i, step := range seq {
			if step.Kind != StepApp && step.Kind != StepButton {
				return nil, fmt.Errorf("%w: %s[%d] has unknown kind %q", ErrInvalidStep, name, i, step.Kind)
			}
			if step.Value == "" {
				return nil, fmt.Errorf("%w: %s[%d] has empty value", ErrInvalidStep, name, i)
			}
			if step.PostDelay < 0 {
				return nil, fmt.Errorf("%w: %s[%d] has negative delay", ErrInvalidStep, name, i)
			}
		}
	}

	// Copy so later mutation of the input map cannot bypass validation.
	owned := make(map[string]Sequence, len(sequences))
	for name, seq := range sequences {
		owned[name] = append(Sequence(nil), seq...)
	}

	return &Catalog{sequences: owned}, nil
}

// Sequence returns the sequence registered under name.
//
// Returns:
//   - Sequence: The steps, in execution order
//   - bool: Whether the name is registered
func (c *Catalog) Sequence(name string) (Sequence, bool) {
	seq, ok := c.sequences[name]
	return seq, ok
}

// Knows reports whether name resolves to any behaviour: a registered
// sequence or one of the synthetic actions.
func (c *Catalog) Knows(name string) bool {
	if name == ActionTurnOn || name == ActionTurnOff {
		return true
	}
	_, ok := c.sequences[name]
	return ok
}

// Names returns every resolvable action name, synthetic actions first,
// sequences sorted alphabetically. Used by front-ends to render menus.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.sequences))
	for name := range c.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{ActionTurnOn, ActionTurnOff}, names...)
}

// tvgoApp is the T-Mobile TV Go application the channel macros drive.
const tvgoApp = "cz.tmobile.tvgo"

// channelSequence builds the macro that navigates TV Go to a channel digit.
// The long delay after the app launch covers its startup splash screen.
func channelSequence(digit string) Sequence {
	return Sequence{
		{Kind: StepButton, Value: "HOME", PostDelay: time.Second},
		{Kind: StepApp, Value: tvgoApp, PostDelay: 10 * time.Second},
		{Kind: StepButton, Value: "RIGHT", PostDelay: time.Second},
		{Kind: StepButton, Value: "ENTER", PostDelay: time.Second},
		{Kind: StepButton, Value: digit, PostDelay: time.Second},
		{Kind: StepButton, Value: "ENTER", PostDelay: time.Second},
		{Kind: StepButton, Value: "ENTER", PostDelay: time.Second},
		{Kind: StepButton, Value: "RIGHT", PostDelay: time.Second},
		{Kind: StepButton, Value: "ENTER", PostDelay: 0},
	}
}

// DefaultCatalog returns the built-in action catalog.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(map[string]Sequence{
		"channel_1": channelSequence("1"),
		"channel_2": channelSequence("2"),
	})
	if err != nil {
		// The built-in sequences are constants; a validation failure here
		// is a programming error.
		panic(err)
	}
	return catalog
}
