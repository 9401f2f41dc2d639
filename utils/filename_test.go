package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blade", "blade"},
		{"my blade photo", "my_blade_photo"},
		{"../../etc/passwd", "etc_passwd"},
		{"тест", "____"},
		{"..hidden..", "hidden"},
		{"...", "file"},
		{"", "file"},
		{"ok-name_01", "ok-name_01"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
