package adapter

import (
	"testing"

	"github.com/google/gousb"
	"github.com/nixxel-company-limited/niimprint/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePort(t *testing.T) {
	testCases := []struct {
		name string
		port string
		want portSelector
	}{
		{"Empty", "", portSelector{auto: true}},
		{"Auto", "auto", portSelector{auto: true}},
		{"AutoUpper", "AUTO", portSelector{auto: true}},
		{"VIDPID", "3513:0002", portSelector{vid: 0x3513, pid: 0x0002}},
		{"VIDPIDLower", "1a86:7523", portSelector{vid: 0x1a86, pid: 0x7523}},
		{"Serial", "A1B2C3D4", portSelector{serial: "A1B2C3D4"}},
		{"SerialWithColon", "ab:cd", portSelector{serial: "ab:cd"}},
		{"DevicePath", "/dev/ttyACM0", portSelector{path: "/dev/ttyACM0"}},
		{"DevicePathByID", "/dev/serial/by-id/usb-NIIMBOT_B21-if00", portSelector{path: "/dev/serial/by-id/usb-NIIMBOT_B21-if00"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := parsePort(tc.port)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sel)
		})
	}
}

func TestModelFromProduct(t *testing.T) {
	testCases := []struct {
		product string
		want    device.Model
	}{
		{"NIIMBOT B21", device.ModelB21},
		{"Niimbot D110 Label Printer", device.ModelD110},
		{"D11_H", device.ModelD11},
		{"b1", device.ModelB1},
		{"NIIMBOT B3S", device.Model("b3s")},
		{"  ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.product, func(t *testing.T) {
			assert.Equal(t, tc.want, modelFromProduct(tc.product))
		})
	}
}

func TestUSBAdapterNotOpen(t *testing.T) {
	a := &USBAdapter{}

	assert.False(t, a.IsOpen())

	_, err := a.Write([]byte{0x55, 0x55})
	assert.ErrorIs(t, err, ErrNotOpen)

	_, err = a.Read(make([]byte, 16))
	assert.ErrorIs(t, err, ErrNotOpen)

	_, err = a.Identify()
	assert.ErrorIs(t, err, ErrNotOpen)

	assert.ErrorIs(t, a.Open(), ErrNotFound)
	assert.NoError(t, a.Close())
}

func TestNewUSBAdapterAuto(t *testing.T) {
	adapter, err := NewUSBAdapterAuto()
	if err != nil {
		t.Skip("No USB label printer found, skipping test")
	}
	defer adapter.Close()

	assert.NotNil(t, adapter.ctx)
	assert.NotNil(t, adapter.GetDevice())
}

func TestFindLabelPrinters(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	printers := FindLabelPrinters(ctx)
	assert.NotNil(t, printers)

	if len(printers) == 0 {
		t.Skip("No USB label printers found")
	}

	t.Logf("Found %d printer(s)", len(printers))
	for _, printer := range printers {
		assert.True(t, IsLabelPrinter(printer))
		printer.Close()
	}
}

func TestIsLabelPrinterNil(t *testing.T) {
	assert.False(t, IsLabelPrinter(nil))
}

func TestUSBAdapterOpenIdentifyClose(t *testing.T) {
	adapter, err := NewUSBAdapterAuto()
	if err != nil {
		t.Skip("No USB label printer found, skipping test")
	}
	defer adapter.Close()

	err = adapter.Open()
	require.NoError(t, err)
	assert.True(t, adapter.IsOpen())

	err = adapter.Open()
	assert.ErrorIs(t, err, ErrAlreadyOpen)

	model, err := adapter.Identify()
	require.NoError(t, err)
	t.Logf("Printer reports model %q", model)

	require.NoError(t, adapter.Close())
	assert.False(t, adapter.IsOpen())

	// Double close should not error
	assert.NoError(t, adapter.Close())
}

func TestGetDeviceByVIDPID(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	_, err := GetDeviceByVIDPID(ctx, 0xFFFF, 0xFFFF)
	assert.Error(t, err)
}

func TestGetDeviceBySerial(t *testing.T) {
	ctx := gousb.NewContext()
	defer ctx.Close()

	_, err := GetDeviceBySerial(ctx, "INVALID_SERIAL_NUMBER")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
