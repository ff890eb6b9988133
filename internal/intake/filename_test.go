package intake

import (
	"errors"
	"runtime"
	"testing"
)

func TestSecureFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"scan_HOST01.log", "scan_HOST01.log"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "passwd"},
		{"logs/scan_HOST01.log", "scan_HOST01.log"},
		{"dir\\sub/", ""},
		{"i contain cool \u00fcml\u00e4uts.txt", "i_contain_cool_umlauts.txt"},
		{`C:\Users\bob\msert_PC-7.log`, "msert_PC-7.log"},
		{`\\fileserver\scans\my logs\scan_WS 12.log`, "scan_WS_12.log"},
		{"\t scan  HOST.log ", "scan_HOST.log"},
		{"___.log__", "log"},
		{"scan_<HOST>;01.log", "scan_HOST01.log"},
		{"日本語", ""},
		{"", ""},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := SecureFilename(tc.in); got != tc.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSecureFilenameDeviceNames(t *testing.T) {
	got := SecureFilename("CON.log")
	want := "CON.log"
	if runtime.GOOS == "windows" {
		want = "_CON.log"
	}
	if got != want {
		t.Errorf("SecureFilename(%q) = %q, want %q", "CON.log", got, want)
	}
}

func TestComputerName(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"scan_HOST01.log", "HOST01"},
		{"msert_WS-0042.txt", "WS-0042"},
		{"msert_HOST01.2024.log", "2024"},
		{"scan_HOST01.log_extra", "HOST01"},
		{"_HOST.log", "HOST"},
	}

	for _, tc := range cases {
		t.Run(tc.filename, func(t *testing.T) {
			got, err := ComputerName(tc.filename)
			if err != nil {
				t.Fatalf("ComputerName(%q) returned an error: %v", tc.filename, err)
			}
			if got != tc.want {
				t.Errorf("ComputerName(%q) = %q, want %q", tc.filename, got, tc.want)
			}
		})
	}
}

func TestComputerNameMalformed(t *testing.T) {
	for _, filename := range []string{
		"report.txt",
		"scan_HOST01",
		"scan_.log",
		"a_b_c.log",
		"",
	} {
		t.Run(filename, func(t *testing.T) {
			name, err := ComputerName(filename)
			if !errors.Is(err, ErrMalformedFilename) {
				t.Fatalf("ComputerName(%q) = %q, %v; want ErrMalformedFilename", filename, name, err)
			}
		})
	}
}
