package job

import (
	"errors"
	"fmt"

	"github.com/nixxel-company-limited/niimprint/adapter"
	"github.com/nixxel-company-limited/niimprint/driver"
	"go.uber.org/zap"
)

// Dispatcher hands validated jobs to a driver.
type Dispatcher struct {
	factory driver.Factory
	logger  *zap.Logger

	// CheckStatus runs a pre-flight status query before printing.
	CheckStatus bool
}

// NewDispatcher creates a dispatcher binding drivers with factory.
func NewDispatcher(factory driver.Factory, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{factory: factory, logger: logger}
}

// Dispatch prints job on the device behind a. The driver is called once;
// its errors are returned as DriverError without retrying.
func (d *Dispatcher) Dispatch(job *PrintJob, a adapter.Adapter) error {
	if job.dispatched {
		return ErrJobDispatched
	}
	job.dispatched = true

	client, err := d.factory(a)
	if err != nil {
		return &DriverError{Op: "bind", Err: err}
	}

	if d.CheckStatus {
		if err := d.Preflight(client); err != nil {
			return err
		}
	}

	d.logger.Info("Sending print job",
		zap.String("job_id", job.ID.String()),
		zap.String("model", job.Model.String()),
		zap.Int("density", job.Density),
		zap.Int("width", job.Width),
		zap.Int("height", job.Height))

	if err := client.Print(job.Image, job.Density); err != nil {
		return &DriverError{Op: "print", Err: err}
	}

	d.logger.Info("Print job sent", zap.String("job_id", job.ID.String()))
	return nil
}

// Preflight refuses to print with the paper compartment open or while the
// device is busy. A device error code is logged and otherwise ignored.
func (d *Dispatcher) Preflight(client driver.Client) error {
	status, err := client.Status()
	if err != nil {
		return &DriverError{Op: "status", Err: err}
	}

	if status.OpenPaperCompartment {
		return &DriverError{Op: "status", Err: errors.New("printer paper compartment is open, close before proceeding")}
	}
	if !status.Idle {
		return &DriverError{Op: "status", Err: errors.New("printer is busy")}
	}
	if status.Error {
		code := "unknown"
		if status.ErrorCode != nil {
			code = fmt.Sprint(*status.ErrorCode)
		}
		d.logger.Warn("Printer has error code set, attempting to ignore", zap.String("error_code", code))
	}
	return nil
}
