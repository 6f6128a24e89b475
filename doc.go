// Package serialctl drives serial ports for AT-command modems on Linux, macOS
// and Windows.
//
// A Port walks a fixed lifecycle. Each step is rejected with ErrInvalidState
// until the previous one has succeeded:
//
//	port, err := serialctl.New()
//	if err != nil {
//	    log.Fatal(err) // unsupported platform or stty missing
//	}
//	defer port.Release()
//
//	ctx := context.Background()
//	if err := port.SetDevice(ctx, "/dev/ttyUSB0"); err != nil {
//	    log.Fatal(err)
//	}
//	if err := port.ConfigureBaudRate(ctx, 115200); err != nil {
//	    log.Fatal(err)
//	}
//	if err := port.Open(serialctl.DefaultMode); err != nil {
//	    log.Fatal(err)
//	}
//
//	port.Send([]byte("AT\r"))
//	line, err := port.ReadLine() // "AT" echo or "OK"
//
// # Line Configuration
//
// Line settings are applied by external utilities rather than ioctls:
// stty -F on Linux, stty -f on macOS and mode on Windows. Speed and flow
// control are configurable; data bits, parity and stop bits are fixed at 8N1.
// On Linux and macOS the baud rate command also puts the line in raw mode,
// so reads see bytes as they arrive with no line editing or echo.
// Configuration is only accepted after SetDevice and before Open.
//
// On Linux a Windows-style name is accepted as well: "COM3" resolves to
// /dev/ttyS2. On Windows only COM names are accepted and I/O goes through
// the extended path \\.\COM3.
//
// # Reading and Writing
//
// Handles are non-blocking once opened. ReadBytes(0) drains whatever is
// available and returns immediately; ReadBytes(n) returns at most n bytes
// and possibly fewer. ReadLine switches to blocking mode until a line
// arrives and has no timeout.
//
// Send appends to a write buffer, flushes it when auto-flush is on, then
// sleeps for a fixed delay (100ms by default) to give the modem time to
// answer. With the default FlushDrop policy a failed flush discards the
// buffer; use WithFlushPolicy(FlushRetain) to keep unwritten bytes.
//
// # Errors
//
// Every error is an *Error carrying an ErrorKind. Use errors.Is with the
// predefined values:
//
//	if errors.Is(err, serialctl.ErrInvalidBaudRate) {
//	    // rate not in SupportedBaudRates()
//	}
//
// # Cleanup
//
// Live Ports are tracked process-wide. CloseAll closes every open Port and
// CloseOnSignal does so on SIGINT/SIGTERM before exiting. A Port dropped
// while open has its handle closed when it is garbage collected.
package serialctl
