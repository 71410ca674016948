//go:build !linux

package adapter

// BluetoothAdapter is only implemented on Linux.
type BluetoothAdapter struct {
	mac string
}

// NewBluetoothAdapter validates mac and returns an adapter whose Open
// always fails with ErrNotSupported.
func NewBluetoothAdapter(mac string) (*BluetoothAdapter, error) {
	if _, err := bdaddr(mac); err != nil {
		return nil, err
	}
	return &BluetoothAdapter{mac: mac}, nil
}

func (a *BluetoothAdapter) Open() error { return ErrNotSupported }
func (a *BluetoothAdapter) Write(data []byte) (int, error) { return 0, ErrNotOpen }
func (a *BluetoothAdapter) Read(buf []byte) (int, error) { return 0, ErrNotOpen }
func (a *BluetoothAdapter) Close() error { return nil }
func (a *BluetoothAdapter) IsOpen() bool { return false }

// Address returns the printer's MAC address
func (a *BluetoothAdapter) Address() string {
	return a.mac
}
