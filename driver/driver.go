// Package driver defines the boundary between print job preparation and
// the device driver that frames packets and encodes bitmaps.
//
// Drivers register a Factory under a name, usually from an init function,
// and are bound to a connected adapter by the dispatcher:
//
//	func init() {
//		driver.Register("niimbot", func(a adapter.Adapter) (driver.Client, error) {
//			return newClient(a), nil
//		})
//	}
package driver

import (
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/nixxel-company-limited/niimprint/adapter"
)

// Client prints on a device reachable through an adapter.
type Client interface {
	// Print sends img at the given density. The driver owns segmentation,
	// framing, retries and status polling during the print.
	Print(img image.Image, density int) error

	// Status reports the device state.
	Status() (Status, error)
}

// Status is the device state reported before a print.
type Status struct {
	OpenPaperCompartment bool
	Idle                 bool
	Error                bool
	ErrorCode            *int
}

// Factory binds a Client to a connected adapter.
type Factory func(adapter.Adapter) (Client, error)

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Factory)
)

// Register makes a driver available by name. It panics if the name is
// empty, the factory is nil, or the name is already taken.
func Register(name string, factory Factory) {
	driversMu.Lock()
	defer driversMu.Unlock()

	if name == "" {
		panic("driver: Register with empty name")
	}
	if factory == nil {
		panic("driver: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("driver: Register called twice for driver " + name)
	}
	drivers[name] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()

	factory, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("unknown driver %q (registered: %v)", name, driverNames())
	}
	return factory, nil
}

// Drivers returns the sorted names of the registered drivers.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return driverNames()
}

func driverNames() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
