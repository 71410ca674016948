package job

import (
	"os"

	"github.com/nixxel-company-limited/niimprint/device"
	"github.com/nixxel-company-limited/niimprint/raster"
	"go.uber.org/zap"
)

// Options are the user's choices for one print.
type Options struct {
	ImagePath string
	Model     device.Model
	Conn      ConnectionSpec
	Density   int
	Rotation  int
}

// Check validates option values that need no device or image.
func (o Options) Check() error {
	if o.ImagePath == "" {
		return configErrorf("--image argument required")
	}
	if _, err := os.Stat(o.ImagePath); err != nil {
		return configErrorf("image path %s: %v", o.ImagePath, err)
	}
	if o.Density < MinDensity || o.Density > MaxDensity {
		return configErrorf("density %d out of range %d-%d", o.Density, MinDensity, MaxDensity)
	}
	if !raster.ValidRotation(o.Rotation) {
		return configErrorf("rotation %d not one of %v", o.Rotation, raster.Rotations)
	}
	return nil
}

// Pipeline runs a print from options to driver.
type Pipeline struct {
	Resolver   *Resolver
	Validator  *Validator
	Dispatcher *Dispatcher
	Logger     *zap.Logger
}

// Run resolves the transport, loads and rotates the image, validates the
// job and dispatches it. The transport is closed before Run returns.
func (p *Pipeline) Run(opts Options) error {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := opts.Check(); err != nil {
		return err
	}

	conn, err := p.Resolver.Resolve(opts.Conn, opts.Model)
	if err != nil {
		return err
	}
	defer func() {
		logger.Debug("Closing printer connection")
		if err := conn.Close(); err != nil {
			logger.Warn("Error closing printer connection", zap.Error(err))
		}
	}()

	img, err := raster.Open(opts.ImagePath)
	if err != nil {
		return &ImageDecodeError{Path: opts.ImagePath, Err: err}
	}

	normalized, err := raster.Normalize(img, opts.Rotation)
	if err != nil {
		return configErrorf("%v", err)
	}
	logger.Debug("Image normalized",
		zap.String("image", opts.ImagePath),
		zap.Int("rotation", normalized.Rotation),
		zap.Int("width", normalized.Width),
		zap.Int("height", normalized.Height))

	job, err := p.Validator.Validate(conn.Model, opts.Density, normalized)
	if err != nil {
		return err
	}

	return p.Dispatcher.Dispatch(job, conn.Adapter)
}
