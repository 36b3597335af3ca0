package yaniv

import "errors"

// Sentinel errors returned by the engine. Callers (the room/API layers)
// map these to HTTP 4xx via errors.Is.
var (
	ErrIllegalAction       = errors.New("illegal action")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrGameFinished        = errors.New("game is finished")
	ErrSlamdownUnavailable = errors.New("slamdown not available")
)
