package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/gousb"
)

// sysfsRoot is where the kernel exposes its device tree.
var sysfsRoot = "/sys"

// maxSysfsDepth bounds the walk from a tty's device node up to the USB
// device that owns it. CDC ACM ttys sit one level below it, usb-serial
// ttys two.
const maxSysfsDepth = 4

// ttySelector maps a serial device node to the USB device behind it using
// the sysfs tree under root. The device's serial number is used when it
// has one, its vendor and product IDs otherwise.
func ttySelector(root, devPath string) (portSelector, error) {
	// Follow /dev/serial/by-id style links to the real node.
	if resolved, err := filepath.EvalSymlinks(devPath); err == nil {
		devPath = resolved
	}

	name := filepath.Base(devPath)
	dir, err := filepath.EvalSymlinks(filepath.Join(root, "class", "tty", name, "device"))
	if err != nil {
		return portSelector{}, fmt.Errorf("%s is not a known tty device: %w", devPath, err)
	}

	for i := 0; i < maxSysfsDepth; i++ {
		vid, err := readSysfsID(filepath.Join(dir, "idVendor"))
		if err == nil {
			pid, err := readSysfsID(filepath.Join(dir, "idProduct"))
			if err != nil {
				return portSelector{}, fmt.Errorf("failed to read product id of %s: %w", devPath, err)
			}

			sel := portSelector{vid: vid, pid: pid}
			if serial, err := os.ReadFile(filepath.Join(dir, "serial")); err == nil {
				sel.serial = strings.TrimSpace(string(serial))
			}
			return sel, nil
		}
		dir = filepath.Dir(dir)
	}

	return portSelector{}, fmt.Errorf("%s is not a USB serial device", devPath)
}

func readSysfsID(path string) (gousb.ID, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	id, err := strconv.ParseUint(strings.TrimSpace(string(b)), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad id in %s: %w", path, err)
	}
	return gousb.ID(id), nil
}
