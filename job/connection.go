package job

import (
	"regexp"
	"strings"

	"github.com/nixxel-company-limited/niimprint/adapter"
	"github.com/nixxel-company-limited/niimprint/device"
)

// ConnType selects the transport.
type ConnType string

const (
	ConnUSB       ConnType = "usb"
	ConnBluetooth ConnType = "bluetooth"
)

// ConnTypes lists the accepted connection types.
var ConnTypes = []ConnType{ConnUSB, ConnBluetooth}

var macPattern = regexp.MustCompile(`^([0-9A-F]{2}:){5}[0-9A-F]{2}$`)

// ParseConnType parses a connection type name.
func ParseConnType(s string) (ConnType, error) {
	c := ConnType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ConnTypes {
		if c == known {
			return c, nil
		}
	}
	return "", configErrorf("unsupported connection type %q", s)
}

// ConnectionSpec says how to reach the printer. Address is a MAC for
// Bluetooth and an optional port selector for USB.
type ConnectionSpec struct {
	Type    ConnType
	Address string
}

// NormalizeMAC upper-cases addr and checks that it is six colon separated
// hex octets.
func NormalizeMAC(addr string) (string, error) {
	mac := strings.ToUpper(addr)
	if !macPattern.MatchString(mac) {
		return "", &ValidationError{Field: "MAC address", Value: addr, Msg: "want six colon separated hex octets"}
	}
	return mac, nil
}

// normalize checks the spec against the requested model before any
// connection is attempted and returns it with defaults filled in.
func (s ConnectionSpec) normalize(model device.Model) (ConnectionSpec, error) {
	switch s.Type {
	case ConnBluetooth:
		if s.Address == "" {
			return s, configErrorf("--addr argument required for bluetooth connection")
		}
		if model == device.ModelAuto || model == "" {
			return s, configErrorf("--model argument required for bluetooth connection")
		}
		mac, err := NormalizeMAC(s.Address)
		if err != nil {
			return s, err
		}
		s.Address = mac
	case ConnUSB:
		if s.Address == "" {
			s.Address = adapter.AutoPort
		}
	default:
		return s, configErrorf("unsupported connection type %q", s.Type)
	}
	return s, nil
}

// Connection is a connected transport and the model it resolved to.
type Connection struct {
	Spec    ConnectionSpec
	Adapter adapter.Adapter
	Model   device.Model
}

// Close closes the transport.
func (c *Connection) Close() error {
	if c == nil || c.Adapter == nil {
		return nil
	}
	return c.Adapter.Close()
}
