package adapter

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/google/gousb"
	"github.com/nixxel-company-limited/niimprint/device"
)

// vendorHint marks devices that are preferred during auto-detection.
const vendorHint = "niimbot"

var vidPIDPattern = regexp.MustCompile(`^[0-9A-Fa-f]{4}:[0-9A-Fa-f]{4}$`)

// USBAdapter talks to a label printer over its USB bulk endpoints.
// Printers show up either as a CDC serial device or as a USB printer
// class device; both expose a bulk OUT endpoint on one interface.
type USBAdapter struct {
	device      *gousb.Device
	ctx         *gousb.Context
	outEndpoint *gousb.OutEndpoint
	inEndpoint  *gousb.InEndpoint
	iface       *gousb.Interface
	cfg         *gousb.Config
	isOpen      bool
	mu          sync.Mutex
}

// portSelector is the parsed form of a USB port string.
type portSelector struct {
	auto   bool
	vid    gousb.ID
	pid    gousb.ID
	serial string
	path   string
}

// parsePort accepts AutoPort (or an empty string), a serial device node
// such as /dev/ttyACM0, a "VVVV:PPPP" hex vendor/product pair, or anything
// else as a USB serial number.
func parsePort(port string) (portSelector, error) {
	port = strings.TrimSpace(port)
	if port == "" || strings.EqualFold(port, AutoPort) {
		return portSelector{auto: true}, nil
	}

	if strings.HasPrefix(port, "/dev/") {
		return portSelector{path: port}, nil
	}

	if vidPIDPattern.MatchString(port) {
		vid, err := strconv.ParseUint(port[:4], 16, 16)
		if err != nil {
			return portSelector{}, fmt.Errorf("bad vendor id in %q: %w", port, err)
		}
		pid, err := strconv.ParseUint(port[5:], 16, 16)
		if err != nil {
			return portSelector{}, fmt.Errorf("bad product id in %q: %w", port, err)
		}
		return portSelector{vid: gousb.ID(vid), pid: gousb.ID(pid)}, nil
	}

	return portSelector{serial: port}, nil
}

// NewUSBAdapter finds the printer selected by port. The device is not
// claimed until Open is called.
func NewUSBAdapter(port string) (*USBAdapter, error) {
	sel, err := parsePort(port)
	if err != nil {
		return nil, err
	}

	if sel.path != "" {
		sel, err = ttySelector(sysfsRoot, sel.path)
		if err != nil {
			return nil, err
		}
	}

	ctx := gousb.NewContext()
	adapter := &USBAdapter{ctx: ctx}

	var dev *gousb.Device
	switch {
	case sel.auto:
		devices := FindLabelPrinters(ctx)
		if len(devices) == 0 {
			ctx.Close()
			return nil, ErrNotFound
		}
		dev = devices[0]
		for _, d := range devices[1:] {
			d.Close()
		}
	case sel.serial != "":
		dev, err = GetDeviceBySerial(ctx, sel.serial)
	default:
		dev, err = GetDeviceByVIDPID(ctx, uint16(sel.vid), uint16(sel.pid))
	}
	if err != nil {
		ctx.Close()
		return nil, err
	}

	adapter.device = dev
	return adapter, nil
}

// NewUSBAdapterAuto creates adapter with auto-detection
func NewUSBAdapterAuto() (*USBAdapter, error) {
	return NewUSBAdapter(AutoPort)
}

// dataInterface returns the number of the first interface that carries
// print data, or -1.
func dataInterface(desc gousb.ConfigDesc) int {
	for _, iface := range desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == gousb.ClassPrinter || alt.Class == gousb.ClassData {
				return iface.Number
			}
		}
	}
	return -1
}

// IsLabelPrinter checks if a device exposes an interface a label printer
// would use for print data.
func IsLabelPrinter(dev *gousb.Device) bool {
	if dev == nil {
		return false
	}

	cfg, err := dev.ActiveConfigNum()
	if err != nil {
		return false
	}

	desc, ok := dev.Desc.Configs[cfg]
	if !ok {
		return false
	}

	return dataInterface(desc) >= 0
}

// FindLabelPrinters returns all candidate printer devices. Devices whose
// manufacturer or product string names the vendor come first.
func FindLabelPrinters(ctx *gousb.Context) []*gousb.Device {
	var preferred, others []*gousb.Device

	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true // Check all devices
	})
	if err != nil && len(devices) == 0 {
		return []*gousb.Device{}
	}

	for _, dev := range devices {
		if !IsLabelPrinter(dev) {
			dev.Close()
			continue
		}
		if hasVendorHint(dev) {
			preferred = append(preferred, dev)
		} else {
			others = append(others, dev)
		}
	}

	return append(append([]*gousb.Device{}, preferred...), others...)
}

func hasVendorHint(dev *gousb.Device) bool {
	manufacturer, _ := dev.Manufacturer()
	product, _ := dev.Product()
	s := strings.ToLower(manufacturer + " " + product)
	return strings.Contains(s, vendorHint)
}

// GetDeviceByVIDPID opens a device by VID and PID
func GetDeviceByVIDPID(ctx *gousb.Context, vid, pid uint16) (*gousb.Device, error) {
	device, err := ctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, fmt.Errorf("device %04x:%04x not found", vid, pid)
	}
	return device, nil
}

// GetDeviceBySerial opens a device by serial number
func GetDeviceBySerial(ctx *gousb.Context, serial string) (*gousb.Device, error) {
	devices, err := ctx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return true
	})
	if err != nil && len(devices) == 0 {
		return nil, err
	}

	var found *gousb.Device
	for _, dev := range devices {
		if found == nil {
			if s, err := dev.SerialNumber(); err == nil && s == serial {
				found = dev
				continue
			}
		}
		dev.Close()
	}

	if found == nil {
		return nil, errors.New("device with serial number not found")
	}
	return found, nil
}

// Open opens the USB device and claims the print data interface
func (a *USBAdapter) Open() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.isOpen {
		return ErrAlreadyOpen
	}

	if a.device == nil {
		return ErrNotFound
	}

	// Set auto-detach kernel driver on Linux
	if runtime.GOOS == "linux" {
		a.device.SetAutoDetach(true)
	}

	cfgNum, err := a.device.ActiveConfigNum()
	if err != nil {
		return fmt.Errorf("failed to get active config: %w", err)
	}

	cfg, err := a.device.Config(cfgNum)
	if err != nil {
		return fmt.Errorf("failed to get config: %w", err)
	}

	ifaceNum := dataInterface(cfg.Desc)
	if ifaceNum < 0 {
		cfg.Close()
		return errors.New("no print data interface found")
	}

	iface, err := cfg.Interface(ifaceNum, 0)
	if err != nil {
		cfg.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut && a.outEndpoint == nil {
			if ep, err := iface.OutEndpoint(epDesc.Number); err == nil {
				a.outEndpoint = ep
			}
		}
		if epDesc.Direction == gousb.EndpointDirectionIn && a.inEndpoint == nil {
			if ep, err := iface.InEndpoint(epDesc.Number); err == nil {
				a.inEndpoint = ep
			}
		}
	}

	if a.outEndpoint == nil {
		iface.Close()
		cfg.Close()
		return errors.New("cannot find output endpoint from printer")
	}

	a.cfg = cfg
	a.iface = iface
	a.isOpen = true
	return nil
}

// Write sends data to the printer
func (a *USBAdapter) Write(data []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}

	n, err := a.outEndpoint.Write(data)
	if err != nil {
		return n, fmt.Errorf("write failed: %w", err)
	}
	return n, nil
}

// Read reads data from the printer
func (a *USBAdapter) Read(buf []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return 0, ErrNotOpen
	}

	if a.inEndpoint == nil {
		return 0, errors.New("input endpoint not available")
	}

	n, err := a.inEndpoint.Read(buf)
	if err != nil {
		return n, fmt.Errorf("read failed: %w", err)
	}
	return n, nil
}

// Identify reports the model named by the device's USB product string.
func (a *USBAdapter) Identify() (device.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isOpen {
		return "", ErrNotOpen
	}

	product, err := a.device.Product()
	if err != nil {
		return "", fmt.Errorf("failed to read product string: %w", err)
	}
	return modelFromProduct(product), nil
}

// modelFromProduct picks the known model name out of a product string
// such as "NIIMBOT B21". Unknown products yield their last word so the
// caller can report what the device claimed to be.
func modelFromProduct(product string) device.Model {
	words := strings.FieldsFunc(strings.ToLower(product), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	if len(words) == 0 {
		return ""
	}

	for _, w := range words {
		m, err := device.ParseModel(w)
		if err == nil && m != device.ModelAuto {
			return m
		}
	}
	return device.Model(words[len(words)-1])
}

// Close closes the USB device. It is safe to call on an adapter that was
// never opened.
func (a *USBAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var errs []error

	if a.iface != nil {
		a.iface.Close()
		a.iface = nil
	}

	if a.cfg != nil {
		if err := a.cfg.Close(); err != nil {
			errs = append(errs, err)
		}
		a.cfg = nil
	}

	if a.device != nil {
		if err := a.device.Close(); err != nil {
			errs = append(errs, err)
		}
		a.device = nil
	}

	if a.ctx != nil {
		if err := a.ctx.Close(); err != nil {
			errs = append(errs, err)
		}
		a.ctx = nil
	}

	a.outEndpoint = nil
	a.inEndpoint = nil
	a.isOpen = false

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}

// IsOpen returns whether the device is open
func (a *USBAdapter) IsOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isOpen
}

// GetDevice returns the underlying USB device
func (a *USBAdapter) GetDevice() *gousb.Device {
	return a.device
}
