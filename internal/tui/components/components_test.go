package components

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte("OK\r\n"), `OK\r\n`},
		{[]byte("+CSQ: 21,99"), "+CSQ: 21,99"},
		{[]byte{0x1a}, `\x1A`},
		{[]byte{'A', 0xff}, `A\xFF`},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"41540D", "AT\r", false},
		{"41 54 0d", "AT\r", false},
		{"0x41 0x54", "AT", false},
		{"41:54", "AT", false},
		{"415", "", true},
		{"zz", "", true},
		{"  ", "", true},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && string(got) != tt.want {
			t.Errorf("ParseHex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInputPayload(t *testing.T) {
	in := NewInput("\r")
	in.SetValue("ATI")

	data, err := in.Payload()
	if err != nil {
		t.Fatalf("Payload failed: %v", err)
	}
	if string(data) != "ATI\r" {
		t.Errorf("Expected %q, got %q", "ATI\r", data)
	}

	in.ToggleMode()
	if in.Mode() != SendingModeHex {
		t.Fatalf("Expected hex mode after toggle")
	}
	in.SetValue("41 54")
	data, err = in.Payload()
	if err != nil {
		t.Fatalf("Payload failed: %v", err)
	}
	if string(data) != "AT" {
		t.Errorf("Expected terminator to be skipped in hex mode, got %q", data)
	}
}

func TestInputHistory(t *testing.T) {
	in := NewInput("\r")
	for _, cmd := range []string{"AT", "ATI", "ATI", "AT+CSQ"} {
		in.SetValue(cmd)
		in.Commit()
	}
	if in.Value() != "" {
		t.Errorf("Expected Commit to clear the field")
	}
	if len(in.history) != 3 {
		t.Fatalf("Expected consecutive duplicates to collapse, got %v", in.history)
	}

	in.SetValue("AT+C")
	in.HistoryUp()
	if in.Value() != "AT+CSQ" {
		t.Errorf("Expected AT+CSQ, got %q", in.Value())
	}
	in.HistoryUp()
	in.HistoryUp()
	in.HistoryUp()
	if in.Value() != "AT" {
		t.Errorf("Expected history to stop at the oldest entry, got %q", in.Value())
	}

	in.HistoryDown()
	in.HistoryDown()
	in.HistoryDown()
	if in.Value() != "AT+C" {
		t.Errorf("Expected the draft to come back, got %q", in.Value())
	}
}

func TestFormatter(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 30, 45, 123e6, time.UTC)
	rx := Entry{Time: at, Dir: DirRX, Data: []byte("OK\r\n")}

	plain := Formatter{}.Format(rx)
	if !strings.Contains(plain, `OK\r\n`) {
		t.Errorf("Expected escaped payload, got %q", plain)
	}
	if strings.Contains(plain, "12:30:45") {
		t.Errorf("Expected no timestamp, got %q", plain)
	}

	stamped := Formatter{Hex: true, Timestamps: true}.Format(rx)
	if !strings.Contains(stamped, "4F 4B 0D 0A") || !strings.Contains(stamped, "12:30:45.123") {
		t.Errorf("Expected hex payload and timestamp, got %q", stamped)
	}

	failed := Formatter{}.Format(Entry{Dir: DirTX, Data: []byte("AT\r"), Err: errors.New("write failed")})
	if !strings.Contains(failed, "write failed") {
		t.Errorf("Expected the error to be shown, got %q", failed)
	}
}

func TestLogViewCapsEntries(t *testing.T) {
	l := NewLogView(80, 10)
	for i := 0; i < maxEntries+10; i++ {
		l.Add(Entry{Dir: DirRX, Data: []byte("RING")})
	}
	if len(l.Entries()) != maxEntries {
		t.Errorf("Expected %d entries, got %d", maxEntries, len(l.Entries()))
	}
	l.Clear()
	if len(l.Entries()) != 0 {
		t.Errorf("Expected empty log after Clear")
	}
}
