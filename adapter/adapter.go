package adapter

import (
	"errors"

	"github.com/nixxel-company-limited/niimprint/device"
)

// AutoPort selects the first label printer found on the USB bus.
const AutoPort = "auto"

// Common errors
var (
	ErrNotOpen      = errors.New("device not open")
	ErrAlreadyOpen  = errors.New("device already open")
	ErrNotFound     = errors.New("cannot find printer")
	ErrNotSupported = errors.New("operation not supported on this platform")
)

// Adapter defines the interface for printer communication adapters
type Adapter interface {
	// Open opens the connection to the printer
	Open() error

	// Write sends data to the printer
	Write(data []byte) (int, error)

	// Read reads data from the printer
	Read(buf []byte) (int, error)

	// Close closes the connection to the printer
	Close() error

	// IsOpen returns whether the connection is open
	IsOpen() bool
}

// Identifier is implemented by adapters that can report the model of the
// connected device. It is only meaningful on an open adapter.
type Identifier interface {
	Identify() (device.Model, error)
}
