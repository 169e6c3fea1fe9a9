package humanfmt

import "testing"

func TestFormatSeconds(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3661, "01:01:01"},
		{59.9, "00:00:59"},
		{36000, "10:00:00"},
		{360000, "100:00:00"},
		{-5, "00:00:00"},
	}
	for _, tc := range cases {
		if got := FormatSeconds(tc.in); got != tc.want {
			t.Fatalf("FormatSeconds(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncDoesNotRoundUp(t *testing.T) {
	if got := Trunc(9.999); got != 9 {
		t.Fatalf("Trunc(9.999) = %d, want 9", got)
	}
	if got := Trunc(10); got != 10 {
		t.Fatalf("Trunc(10) = %d, want 10", got)
	}
	if got := Trunc(-1.5); got != -1 {
		t.Fatalf("Trunc(-1.5) = %d, want -1", got)
	}
}

func TestTruncSnapsFloatNoise(t *testing.T) {
	noisy := 0.1 * 30 // 3.0000000000000004
	if got := Trunc(noisy); got != 3 {
		t.Fatalf("Trunc(%v) = %d, want 3", noisy, got)
	}
	below := 2.9999999999999996
	if got := Trunc(below); got != 3 {
		t.Fatalf("Trunc(%v) = %d, want 3", below, got)
	}
}

func TestBytesAndComma(t *testing.T) {
	if got := Bytes(0); got != "0 B" {
		t.Fatalf("Bytes(0) = %q", got)
	}
	if got := Bytes(1536); got != "1.5 KiB" {
		t.Fatalf("Bytes(1536) = %q", got)
	}
	if got := Comma(1234567); got != "1,234,567" {
		t.Fatalf("Comma = %q", got)
	}
}

func TestDurationMicros(t *testing.T) {
	if got := DurationMicros(0); got != "0s" {
		t.Fatalf("DurationMicros(0) = %q", got)
	}
	if got := DurationMicros(1500); got != "1.5ms" {
		t.Fatalf("DurationMicros(1500) = %q", got)
	}
	if got := DurationMicros(2_345_678); got != "2.346s" {
		t.Fatalf("DurationMicros(2345678) = %q", got)
	}
}

func TestMicros(t *testing.T) {
	if got := Micros(0); got != "never" {
		t.Fatalf("Micros(0) = %q", got)
	}
	if got := Micros(1_700_000_000_123_000); got != "2023-11-14T22:13:20.123Z" {
		t.Fatalf("Micros = %q", got)
	}
}
