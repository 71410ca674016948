package job

import (
	"errors"
	"fmt"

	"github.com/nixxel-company-limited/niimprint/device"
)

// ErrJobDispatched is returned when a job is handed to a dispatcher twice.
var ErrJobDispatched = errors.New("print job already dispatched")

// ConfigError reports missing or contradictory options.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "config: " + e.Msg
}

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// ValidationError reports a malformed option value.
type ValidationError struct {
	Field string
	Value string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Msg)
}

// UnsupportedModelError reports a model missing from the capability table.
type UnsupportedModelError struct {
	Model device.Model
}

func (e *UnsupportedModelError) Error() string {
	return fmt.Sprintf("unsupported model: %s", e.Model)
}

// ImageTooWideError reports an image wider than the print head.
type ImageTooWideError struct {
	Model    device.Model
	Width    int
	MaxWidth int
}

func (e *ImageTooWideError) Error() string {
	return fmt.Sprintf("image width too big for %s: %dpx > %dpx", e.Model.Display(), e.Width, e.MaxWidth)
}

// ImageDecodeError reports an unreadable source image.
type ImageDecodeError struct {
	Path string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// ConnectionError reports a failure to reach or identify the device.
type ConnectionError struct {
	Conn    ConnType
	Address string
	Err     error
}

func (e *ConnectionError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("%s connection failed: %v", e.Conn, e.Err)
	}
	return fmt.Sprintf("%s connection to %s failed: %v", e.Conn, e.Address, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DriverError reports a failure raised by the device driver.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver %s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}
