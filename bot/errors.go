package bot

import "errors"

// ErrSessionBusy is returned by Submit when the session already has a
// submission in flight.
var ErrSessionBusy = errors.New("session already submitted")
