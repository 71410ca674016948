package job

import (
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/nixxel-company-limited/niimprint/device"
	"github.com/nixxel-company-limited/niimprint/raster"
	"go.uber.org/zap"
)

// Density bounds accepted on the command line.
const (
	MinDensity = 1
	MaxDensity = 5
)

// ClampedDensity is the density used when the requested one exceeds the
// model's maximum. It is a fixed value, not the model maximum.
const ClampedDensity = 3

// PrintJob is a validated job. It is dispatched at most once.
type PrintJob struct {
	ID       uuid.UUID
	Model    device.Model
	Density  int
	Image    image.Image
	Width    int
	Height   int
	Rotation int

	dispatched bool
}

// Validator checks jobs against a capability table.
type Validator struct {
	table  device.Table
	logger *zap.Logger
}

// NewValidator creates a validator over table. The table is not copied
// and must not be modified afterwards.
func NewValidator(table device.Table, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{table: table, logger: logger}
}

// Validate builds a PrintJob for img on model. Rules apply in order: the
// model must be known, an excessive density is clamped with a warning,
// and an image wider than the print head is rejected.
func (v *Validator) Validate(model device.Model, density int, img raster.Normalized) (*PrintJob, error) {
	capability, ok := v.table.Lookup(model)
	if !ok || model == device.ModelAuto {
		return nil, &UnsupportedModelError{Model: model}
	}

	if density < MinDensity || density > MaxDensity {
		return nil, configErrorf("density %d out of range %d-%d", density, MinDensity, MaxDensity)
	}

	if density > capability.MaxDensity {
		v.logger.Warn(fmt.Sprintf("%s only supports density up to %d", model.Display(), capability.MaxDensity),
			zap.Int("requested", density),
			zap.Int("density", ClampedDensity))
		density = ClampedDensity
	}

	if img.Width > capability.MaxWidth {
		return nil, &ImageTooWideError{Model: model, Width: img.Width, MaxWidth: capability.MaxWidth}
	}

	return &PrintJob{
		ID:       uuid.New(),
		Model:    model,
		Density:  density,
		Image:    img.Image,
		Width:    img.Width,
		Height:   img.Height,
		Rotation: img.Rotation,
	}, nil
}
