package core

import "errors"

var (
	// ErrPrecheckFailed means at least one region directory does not hold
	// exactly one file. The violations are in the run log.
	ErrPrecheckFailed = errors.New("precheck failed")

	// ErrValidationFailed means at least one error was recorded while
	// processing the regions. The errors are in the run log.
	ErrValidationFailed = errors.New("validation failed")
)

// NoOutputMessage is printed when a run ends with accumulated errors.
const NoOutputMessage = "Es wurden keine Ausgabedateien erzeugt, da mindestens ein Fehler aufgetreten ist."

// FatalError ends a run immediately. Msg is shown to the operator as is.
type FatalError struct {
	Msg string
	Err error // Underlying cause, may be nil
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func fatal(err error, msg string) *FatalError {
	return &FatalError{Msg: msg, Err: err}
}
