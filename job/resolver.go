package job

import (
	"errors"
	"strings"

	"github.com/nixxel-company-limited/niimprint/adapter"
	"github.com/nixxel-company-limited/niimprint/device"
	"go.uber.org/zap"
)

// Connector opens transports. Both methods return an open adapter.
type Connector interface {
	DialUSB(port string) (adapter.Adapter, error)
	DialBluetooth(mac string) (adapter.Adapter, error)
}

// DeviceConnector opens real USB and Bluetooth adapters.
type DeviceConnector struct{}

// DialUSB opens the USB printer selected by port.
func (DeviceConnector) DialUSB(port string) (adapter.Adapter, error) {
	a, err := adapter.NewUSBAdapter(port)
	if err != nil {
		return nil, err
	}
	return open(a)
}

// DialBluetooth connects to the printer at mac.
func (DeviceConnector) DialBluetooth(mac string) (adapter.Adapter, error) {
	a, err := adapter.NewBluetoothAdapter(mac)
	if err != nil {
		return nil, err
	}
	return open(a)
}

func open(a adapter.Adapter) (adapter.Adapter, error) {
	if err := a.Open(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Resolver turns a ConnectionSpec into a connected transport and a
// concrete model.
type Resolver struct {
	connector Connector
	logger    *zap.Logger
}

// NewResolver creates a resolver dialing through connector.
func NewResolver(connector Connector, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{connector: connector, logger: logger}
}

// Resolve validates spec, connects, and resolves model. ModelAuto is
// answered by asking the connected device to identify itself; it is
// rejected for Bluetooth before dialing.
func (r *Resolver) Resolve(spec ConnectionSpec, model device.Model) (*Connection, error) {
	spec, err := spec.normalize(model)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Connecting to printer",
		zap.String("conn", string(spec.Type)),
		zap.String("address", spec.Address))

	var a adapter.Adapter
	switch spec.Type {
	case ConnBluetooth:
		a, err = r.connector.DialBluetooth(spec.Address)
	default:
		a, err = r.connector.DialUSB(spec.Address)
	}
	if err != nil {
		return nil, &ConnectionError{Conn: spec.Type, Address: spec.Address, Err: err}
	}

	conn := &Connection{Spec: spec, Adapter: a, Model: model}
	if model == device.ModelAuto {
		conn.Model, err = identify(a)
		if err != nil {
			a.Close()
			return nil, &ConnectionError{Conn: spec.Type, Address: spec.Address, Err: err}
		}
		r.logger.Info("Detected printer model", zap.String("model", conn.Model.String()))
	}

	r.logger.Info("Connected to printer",
		zap.String("conn", string(spec.Type)),
		zap.String("address", spec.Address),
		zap.String("model", conn.Model.String()))

	return conn, nil
}

func identify(a adapter.Adapter) (device.Model, error) {
	id, ok := a.(adapter.Identifier)
	if !ok {
		return "", errors.New("transport cannot report the printer model, pass --model")
	}

	m, err := id.Identify()
	if err != nil {
		return "", err
	}

	m = device.Model(strings.ToLower(strings.TrimSpace(string(m))))
	if m == "" || m == device.ModelAuto {
		return "", errors.New("printer did not report a model, pass --model")
	}
	return m, nil
}
