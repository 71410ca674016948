package adapter

import (
	"fmt"
	"net"
)

// RFCOMMChannel is the serial port channel label printers listen on.
const RFCOMMChannel = 1

// bdaddr converts a colon separated MAC address into the byte order the
// kernel expects in a Bluetooth socket address (least significant first).
func bdaddr(mac string) ([6]byte, error) {
	var addr [6]byte

	hw, err := net.ParseMAC(mac)
	if err != nil {
		return addr, fmt.Errorf("bad bluetooth address %q: %w", mac, err)
	}
	if len(hw) != len(addr) {
		return addr, fmt.Errorf("bad bluetooth address %q: want 6 bytes, got %d", mac, len(hw))
	}

	for i := range addr {
		addr[i] = hw[len(hw)-1-i]
	}
	return addr, nil
}
