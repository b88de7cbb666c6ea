package session

import (
	"errors"
	"fmt"
)

// Discovery errors. The session requires exactly a pair of devices; it
// never degrades to single-device capture.
var (
	ErrNoDeviceFound       = errors.New("no device connected")
	ErrInsufficientDevices = errors.New("only one device is connected, two are required")
)

// OpenError reports a failed device open. Any device opened earlier in the
// same pairing has already been closed by the time this is returned.
type OpenError struct {
	Serial string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open device %s: %v", e.Serial, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
