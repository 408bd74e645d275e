//go:build linux
// +build linux

package raspberry

import "fmt"

// Open opens the GPIO backend named by driver.
// chip is the character device name used by the gpiod driver.
func Open(driver, chip string) (GPIO, error) {
	switch driver {
	case DriverGpiod, "":
		c, err := OpenChip(chip)
		if err != nil {
			return nil, fmt.Errorf("can't open gpio chip %q: %w", chip, err)
		}
		return c, nil
	case DriverGpiomem:
		m, err := OpenMem()
		if err != nil {
			return nil, fmt.Errorf("can't map gpio memory: %w", err)
		}
		return m, nil
	case DriverEmu:
		return OpenEmu(), nil
	default:
		return nil, fmt.Errorf("%w: unknown gpio driver %q", ErrInvalidParam, driver)
	}
}
