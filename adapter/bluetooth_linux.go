//go:build linux

package adapter

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// BluetoothAdapter talks to a paired printer over an RFCOMM socket.
type BluetoothAdapter struct {
	mac     string
	addr    [6]byte
	channel uint8
	fd      int
	isOpen  bool
	mu      sync.Mutex
}

// NewBluetoothAdapter prepares an adapter for the printer at mac. No
// connection is made until Open is called.
func NewBluetoothAdapter(mac string) (*BluetoothAdapter, error) {
	addr, err := bdaddr(mac)
	if err != nil {
		return nil, err
	}
	return &BluetoothAdapter{
		mac:     mac,
		addr:    addr,
		channel: RFCOMMChannel,
		fd:      -1,
	}, nil
}

// Open connects the RFCOMM socket. It blocks until the printer answers or
// the kernel gives up.
func (a *BluetoothAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return ErrAlreadyOpen
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM, unix.BTPROTO_RFCOMM)
	if err != nil {
		return fmt.Errorf("failed to create rfcomm socket: %w", err)
	}

	sa := &unix.SockaddrRFCOMM{Addr: a.addr, Channel: a.channel}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return fmt.Errorf("failed to connect to %s: %w", a.mac, err)
	}

	a.fd = fd
	a.isOpen = true
	return nil
}

// Write sends data to the printer
func (a *BluetoothAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}

	written := 0
	for written < len(data) {
		n, err := unix.Write(a.fd, data[written:])
		if err != nil {
			return written, fmt.Errorf("write failed: %w", err)
		}
		written += n
	}
	return written, nil
}

// Read reads data from the printer
func (a *BluetoothAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}

	n, err := unix.Read(a.fd, buf)
	if err != nil {
		return 0, fmt.Errorf("read failed: %w", err)
	}
	return n, nil
}

// Close closes the socket
func (a *BluetoothAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return nil
	}

	err := unix.Close(a.fd)
	a.fd = -1
	a.isOpen = false
	return err
}

// IsOpen returns whether the socket is connected
func (a *BluetoothAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isOpen
}

// Address returns the printer's MAC address
func (a *BluetoothAdapter) Address() string {
	return a.mac
}
