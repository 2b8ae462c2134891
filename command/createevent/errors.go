package createevent

import "errors"

var (
	ErrOwnerNotFound          = errors.New("owner not found")
	ErrIntervalCreationFailed = errors.New("interval creation failed")
	ErrEventCreationFailed    = errors.New("event creation failed")
)
