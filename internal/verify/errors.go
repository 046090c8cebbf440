package verify

import "errors"

// Every fatal step error wraps one of these sentinels together with the cause.
var (
	ErrLaunch        = errors.New("browser launch failed")
	ErrNavigation    = errors.New("navigation failed")
	ErrTimeout       = errors.New("timed out waiting for page")
	ErrSettle        = errors.New("page did not settle")
	ErrCapture       = errors.New("screenshot failed")
	ErrInteraction   = errors.New("interaction failed")
	ErrMarkerMissing = errors.New("expected marker not found")
	ErrRunInProgress = errors.New("a verification run is already in progress")
)
