package cmd

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.bug.st/serial/enumerator"

	"github.com/allbin/go-serialctl"
	"github.com/allbin/go-serialctl/internal/config"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{serialctl.ErrMissingDependency, 3},
		{fmt.Errorf("open: %w", serialctl.ErrDeviceOpenFailed), 4},
		{serialctl.ErrInvalidBaudRate, 2},
		{serialctl.ErrWriteFailed, 1},
		{errors.New("plain"), 1},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseTerminator(t *testing.T) {
	tests := map[string]string{"cr": "\r", "CRLF": "\r\n", "lf": "\n", "none": ""}
	for name, want := range tests {
		got, err := parseTerminator(name)
		if err != nil || got != want {
			t.Errorf("parseTerminator(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
	if _, err := parseTerminator("nul"); err == nil {
		t.Errorf("Expected an error for an unknown terminator")
	}
}

func TestSplitLines(t *testing.T) {
	got := splitLines([]byte("AT+CSQ\r\r\n+CSQ: 21,99\r\n\r\nOK\r\n"))
	want := []string{"AT+CSQ", "+CSQ: 21,99", "OK"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGetPortType(t *testing.T) {
	tests := []struct {
		port enumerator.PortDetails
		want string
	}{
		{enumerator.PortDetails{Name: "/dev/ttyUSB0", IsUSB: true}, "USB Serial"},
		{enumerator.PortDetails{Name: "/dev/ttyACM0", IsUSB: true}, "USB CDC/ACM"},
		{enumerator.PortDetails{Name: "/dev/ttyS0"}, "Standard Serial"},
		{enumerator.PortDetails{Name: "/dev/ttyAMA0"}, "ARM Serial"},
		{enumerator.PortDetails{Name: "/dev/cu.usbmodem1101", IsUSB: true}, "USB Serial"},
		{enumerator.PortDetails{Name: "COM3"}, "COM Port"},
		{enumerator.PortDetails{Name: "COM7", IsUSB: true}, "USB COM Port"},
		{enumerator.PortDetails{Name: "/dev/rfcomm0"}, "Serial Port"},
	}

	for _, tt := range tests {
		if got := getPortType(&tt.port); got != tt.want {
			t.Errorf("getPortType(%s) = %q, want %q", tt.port.Name, got, tt.want)
		}
	}
}

func TestFilterPorts(t *testing.T) {
	ports := func() []*enumerator.PortDetails {
		return []*enumerator.PortDetails{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true},
			{Name: "/dev/ttyACM0", IsUSB: true},
		}
	}

	if got := filterPorts(ports(), "all"); len(got) != 3 {
		t.Errorf("Expected 3 ports for 'all', got %d", len(got))
	}
	if got := filterPorts(ports(), "usb"); len(got) != 2 {
		t.Errorf("Expected 2 USB ports, got %d", len(got))
	}
	if got := filterPorts(ports(), "standard"); len(got) != 1 || got[0].Name != "/dev/ttyS0" {
		t.Errorf("Expected only /dev/ttyS0, got %v", got)
	}
	if got := filterPorts(ports(), "bluetooth"); len(got) != 0 {
		t.Errorf("Expected no ports for an unknown filter, got %d", len(got))
	}
}

func TestSendArgs(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })
	cfg = &config.Config{Device: "/dev/ttyUSB1"}

	tests := []struct {
		name     string
		args     []string
		dataFlag string
		dataSet  bool
		device   string
		data     string
		ok       bool
		wantErr  bool
	}{
		{"device and data", []string{"COM3", "ATI"}, "", false, "COM3", "ATI", true, false},
		{"device only", []string{"COM3"}, "", false, "COM3", "", false, false},
		{"device and flag", []string{"COM3"}, "AT", true, "COM3", "AT", true, false},
		{"configured device", nil, "", false, "/dev/ttyUSB1", "", false, false},
		{"configured device and flag", nil, "AT+CSQ", true, "/dev/ttyUSB1", "AT+CSQ", true, false},
		{"empty flag is still data", nil, "", true, "/dev/ttyUSB1", "", true, false},
		{"data twice", []string{"COM3", "ATI"}, "AT", true, "", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device, data, ok, err := sendArgs(tt.args, tt.dataFlag, tt.dataSet)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if device != tt.device || data != tt.data || ok != tt.ok {
				t.Errorf("Expected (%q, %q, %v), got (%q, %q, %v)", tt.device, tt.data, tt.ok, device, data, ok)
			}
		})
	}

	cfg = &config.Config{}
	if _, _, _, err := sendArgs(nil, "AT", true); err == nil {
		t.Errorf("Expected an error without any device")
	}
}

func TestDeviceArg(t *testing.T) {
	saved := cfg
	t.Cleanup(func() { cfg = saved })

	cfg = &config.Config{}
	if _, err := deviceArg(nil); err == nil {
		t.Errorf("Expected an error without a device")
	}

	cfg = &config.Config{Device: "/dev/ttyACM0"}
	if got, _ := deviceArg(nil); got != "/dev/ttyACM0" {
		t.Errorf("Expected configured device, got %q", got)
	}
	if got, _ := deviceArg([]string{"COM3"}); got != "COM3" {
		t.Errorf("Expected argument to win, got %q", got)
	}
}
