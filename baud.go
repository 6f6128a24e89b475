package serialctl

import "slices"

// supportedBaudRates is the fixed set accepted by ConfigureBaudRate, ascending
var supportedBaudRates = []int{
	110,
	150,
	300,
	600,
	1200,
	2400,
	4800,
	9600,
	19200,
	38400,
	57600,
	115200,
	230400,
	460800,
	921600,
}

// SupportedBaudRates returns a copy of the accepted baud rates in ascending order
func SupportedBaudRates() []int {
	return slices.Clone(supportedBaudRates)
}

// ValidBaudRate reports whether rate is in the supported set
func ValidBaudRate(rate int) bool {
	_, found := slices.BinarySearch(supportedBaudRates, rate)
	return found
}
