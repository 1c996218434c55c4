package utils

import (
	"testing"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is a very long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"abcde", 4, "a..."},
		{"Подмосковье", 8, "Подмо..."},
	}

	for _, test := range tests {
		result := TruncateString(test.input, test.maxLen)
		if result != test.expected {
			t.Errorf("TruncateString(%s, %d) = %s; expected %s", test.input, test.maxLen, result, test.expected)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, test := range tests {
		result := FormatFileSize(test.bytes)
		if result != test.expected {
			t.Errorf("FormatFileSize(%d) = %s; expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestFormatBounds(t *testing.T) {
	result := FormatBounds(55.8, 55.7, 37.75, 37.5)
	expected := "55.7..55.8, 37.5..37.75"
	if result != expected {
		t.Errorf("FormatBounds = %s; expected %s", result, expected)
	}
}

func TestFormatZoom(t *testing.T) {
	if got := FormatZoom(12, 12); got != "z12" {
		t.Errorf("FormatZoom(12, 12) = %s; expected z12", got)
	}
	if got := FormatZoom(10, 16); got != "z10-16" {
		t.Errorf("FormatZoom(10, 16) = %s; expected z10-16", got)
	}
}
