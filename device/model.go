package device

import (
	"fmt"
	"strings"
)

// Model identifies a printer model.
type Model string

// Supported models. ModelAuto asks the transport to report the model
// and is only resolvable over USB.
const (
	ModelAuto Model = "auto"
	ModelB1   Model = "b1"
	ModelB18  Model = "b18"
	ModelB21  Model = "b21"
	ModelD11  Model = "d11"
	ModelD110 Model = "d110"
)

// Models lists the selectable model names in CLI order.
var Models = []Model{ModelAuto, ModelB1, ModelB18, ModelB21, ModelD11, ModelD110}

// ParseModel parses a model name, ignoring case.
func ParseModel(s string) (Model, error) {
	m := Model(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Models {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q", s)
}

// String returns the lower-case model name.
func (m Model) String() string {
	return string(m)
}

// Display returns the model name the way it is printed on the device.
func (m Model) Display() string {
	return strings.ToUpper(string(m))
}
