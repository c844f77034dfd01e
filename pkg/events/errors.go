package events

import "errors"

// ErrBusClosed is returned by Subscribe after the bus has shut down
var ErrBusClosed = errors.New("event bus is closed")
