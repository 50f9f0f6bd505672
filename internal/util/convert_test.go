package util

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "abc", "abc"},
		{"float64 integral", float64(123456789), "123456789"},
		{"float64 fraction", float64(3.5), "3.5"},
		{"json.Number", json.Number("42"), "42"},
		{"int", 7, "7"},
		{"int64", int64(-9), "-9"},
		{"bool", true, "true"},
		{"slice", []int{1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.in); got != tt.want {
				t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1536, "1.5 KB"},
		{3 * 1024 * 1024, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5 min ago"},
		{3 * time.Hour, "3 h ago"},
		{49 * time.Hour, "2 d ago"},
	}
	for _, tt := range tests {
		if got := FormatRelative(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("FormatRelative(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestNullRoundTrip(t *testing.T) {
	if got := FromNull(ToNull[string](nil)); got != nil {
		t.Errorf("expected nil, got %q", *got)
	}
	s := "parent"
	got := FromNull(ToNull(&s))
	if got == nil || *got != "parent" {
		t.Errorf("expected %q, got %v", s, got)
	}
	if FromNull(sql.Null[string]{V: "x"}) != nil {
		t.Error("invalid value should map to nil")
	}
	n := 3
	if p := FromNull(ToNull(&n)); p == nil || *p != 3 {
		t.Errorf("int round trip = %v", p)
	}
}
