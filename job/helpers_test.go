package job

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/nixxel-company-limited/niimprint/adapter"
	"github.com/nixxel-company-limited/niimprint/device"
	"github.com/nixxel-company-limited/niimprint/driver"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAdapter is a mock implementation of the Adapter interface for testing
type MockAdapter struct {
	open      bool
	closed    int
	writeData []byte
}

func (m *MockAdapter) Open() error {
	m.open = true
	return nil
}

func (m *MockAdapter) Write(data []byte) (int, error) {
	m.writeData = append(m.writeData, data...)
	return len(data), nil
}

func (m *MockAdapter) Read(buf []byte) (int, error) {
	return 0, nil
}

func (m *MockAdapter) Close() error {
	m.open = false
	m.closed++
	return nil
}

func (m *MockAdapter) IsOpen() bool {
	return m.open
}

// MockIdentifyingAdapter reports a fixed model.
type MockIdentifyingAdapter struct {
	MockAdapter
	model device.Model
	err   error
	calls int
}

func (m *MockIdentifyingAdapter) Identify() (device.Model, error) {
	m.calls++
	return m.model, m.err
}

// MockConnector records dial attempts.
type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) DialUSB(port string) (adapter.Adapter, error) {
	args := m.Called(port)
	a, _ := args.Get(0).(adapter.Adapter)
	return a, args.Error(1)
}

func (m *MockConnector) DialBluetooth(mac string) (adapter.Adapter, error) {
	args := m.Called(mac)
	a, _ := args.Get(0).(adapter.Adapter)
	return a, args.Error(1)
}

// MockClient is a driver client double.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Print(img image.Image, density int) error {
	return m.Called(img, density).Error(0)
}

func (m *MockClient) Status() (driver.Status, error) {
	args := m.Called()
	return args.Get(0).(driver.Status), args.Error(1)
}

// factoryFor returns a driver factory handing out client.
func factoryFor(client driver.Client) driver.Factory {
	return func(adapter.Adapter) (driver.Client, error) {
		return client, nil
	}
}

// writePNG writes a w x h image to a temp file and returns its path.
func writePNG(t *testing.T, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w && i < h; i++ {
		img.Set(i, i, color.Black)
	}

	path := filepath.Join(t.TempDir(), "label.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}
