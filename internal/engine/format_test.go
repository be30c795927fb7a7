package engine

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumeral(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0", "0"},
		{"1234567", "1,234,567"},
		{"1234.50", "1,234.50"},
		{"12.", "12."},
		{".", "."},
		{"0.", "0."},
		{"-1234.5", "-1,234.5"},
		{"-0.5", "-0.5"},
		{"-", ""},
		{"Error", ""},
		{"", ""},
		{"999", "999"},
		{"12345678901234567890", "12,345,678,901,234,567,000"},
		{"9007199254740993", "9,007,199,254,740,992"},
		{"12345678901234567890.5", "12,345,678,901,234,567,000.5"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumeral(tt.in))
		})
	}
}

func TestFormatResult(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{"integer", 1000000, "1,000,000"},
		{"fraction", 1234.5, "1,234.5"},
		{"negative", -2.5, "-2.5"},
		{"twelve digits", 1.0 / 3.0, "0.333333333333"},
		{"float noise rounded", 0.1 + 0.2, "0.3"},
		{"millions with fraction", 1234567.891, "1,234,567.891"},
		{"shortest digits kept", 9876543.123456789, "9,876,543.12345679"},
		{"rounded to twelve digits", 12.12345678901234, "12.123456789012"},
		{"above 2^53", 1.2345678901234568e20, "123,456,789,012,345,680,000"},
		{"int64 boundary", 9223372036854775808, "9,223,372,036,854,776,000"},
		{"huge", 1.5e300, "1,500" + strings.Repeat(",000", 99)},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"tiny rounds to zero", -1e-13, "0"},
		{"positive infinity", math.Inf(1), Infinity},
		{"negative infinity", math.Inf(-1), Infinity},
		{"nan", math.NaN(), Infinity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatResult(tt.in))
		})
	}
}

func TestFormatResultRoundTrip(t *testing.T) {
	integers := []float64{0, 7, -42, 1234567, 987654321}
	for _, v := range integers {
		got, err := strconv.ParseFloat(strings.ReplaceAll(FormatResult(v), ",", ""), 64)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	decimals := []float64{0.25, 1.0 / 3.0, 2.5e-3, -1234.125, 0.1 + 0.2}
	for _, v := range decimals {
		got, err := strconv.ParseFloat(strings.ReplaceAll(FormatResult(v), ",", ""), 64)
		require.NoError(t, err)
		assert.InDelta(t, v, got, 1e-12)
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{14, "14"},
		{-3, "-3"},
		{0.25, "0.25"},
		{123.456, "123.456"},
		{1e-7, "0.0000001"},
		{1.5e-8, "1.5e-8"},
		{1e21, "1e+21"},
		{-2.5e22, "-2.5e+22"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, canonical(tt.in), "canonical(%v)", tt.in)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	for _, v := range []float64{14, 0.1 + 0.2, 1.0 / 3.0, 1e21, 1.5e-8, -987.654} {
		got, ok := parseNumber(canonical(v))
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestSnapshotDisplay(t *testing.T) {
	e := New()
	typeDigits(t, e, "1234")
	e.ChooseOperation(OpMultiply)
	typeDigits(t, e, "5678.9")

	current, previous := e.Snapshot().Display()
	assert.Equal(t, "5,678.9", current)
	assert.Equal(t, "1,234 ×", previous)

	e.AppendDigit("0")
	e.ChooseOperation(OpDivide)
	e.Compute()
	current, previous = e.Snapshot().Display()
	assert.Equal(t, "Error", current)
	assert.Equal(t, "", previous)
}

func TestSnapshotDisplayTrailingPoint(t *testing.T) {
	e := New()
	typeDigits(t, e, "1000.")
	current, previous := e.Snapshot().Display()
	assert.Equal(t, "1,000.", current)
	assert.Empty(t, previous)
}
