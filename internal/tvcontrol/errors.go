package tvcontrol

import "errors"

// Domain errors for the tvcontrol package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, tvcontrol.ErrBusy) {
//	    // report "another command is running"
//	}
var (
	// ErrUnknownAction is returned when an action name is not in the catalog.
	ErrUnknownAction = errors.New("tvcontrol: unknown action")

	// ErrBusy is returned when another command sequence holds the gate.
	ErrBusy = errors.New("tvcontrol: another command is running")

	// ErrNotConnected is returned when a send is attempted on a session
	// that is not in the connected state.
	ErrNotConnected = errors.New("tvcontrol: session not connected")

	// ErrEmptySequence is returned when a catalog sequence has no steps.
	ErrEmptySequence = errors.New("tvcontrol: sequence has no steps")

	// ErrInvalidStep is returned when a catalog step fails validation.
	ErrInvalidStep = errors.New("tvcontrol: invalid step")

	// ErrReservedName is returned when a catalog sequence uses one of the
	// synthetic action names.
	ErrReservedName = errors.New("tvcontrol: action name is reserved")
)
