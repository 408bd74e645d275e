//go:build !linux
// +build !linux

package raspberry

import "github.com/womat/debug"

// Open returns emulated pins, gpio hardware is only supported on linux.
func Open(driver, _ string) (GPIO, error) {
	if driver != DriverEmu {
		debug.InfoLog.Printf("gpio driver %q not supported, use emulated pins", driver)
	}
	return OpenEmu(), nil
}
