package brc

import (
	"fmt"
	"math"
	"strconv"
	"testing"
)

func TestParseTemp(t *testing.T) {
	valid := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"0.0", 0},
		{"-0.0", 0},
		{"5", 5},
		{"5.", 5},
		{".5", 0.5},
		{"12.3", 12.3},
		{"-12.3", -12.3},
		{"99.9", 99.9},
		{"-99.9", -99.9},
		{"+3.4", 3.4},
		{"007.5", 7.5},
		{"3.25", 3.25},
		{" 8.1", 8.1},
		{"8.1 ", 8.1},
		{"8.1\r", 8.1},
		{"\t-4.0", -4},
	}
	for _, tc := range valid {
		got, ok := ParseTemp([]byte(tc.in))
		if !ok {
			t.Errorf("ParseTemp(%q) rejected, want %v", tc.in, tc.want)
			continue
		}
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("ParseTemp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	invalid := []string{
		"", " ", "-", "+", ".", "-.", "+.",
		"1.2.3", "12a", "a12", "1 2", "1e5", "0x1A",
		"NaN", "inf", "-inf", "--1", "+-1", "1-",
	}
	for _, in := range invalid {
		if got, ok := ParseTemp([]byte(in)); ok {
			t.Errorf("ParseTemp(%q) = %v, want rejection", in, got)
		}
	}
}

func TestParseTempOneDecimalSweep(t *testing.T) {
	// Every value the canonical format can carry, checked against the
	// standard library parse within float tolerance.
	for n := -999; n <= 999; n++ {
		in := fmt.Sprintf("%d.%d", n/10, abs(n%10))
		if n < 0 && n/10 == 0 {
			in = "-" + in
		}
		want, err := strconv.ParseFloat(in, 64)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", in, err)
		}
		got, ok := ParseTemp([]byte(in))
		if !ok {
			t.Fatalf("ParseTemp(%q) rejected", in)
		}
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("ParseTemp(%q) = %v, want %v", in, got, want)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestSplitRecord(t *testing.T) {
	cases := []struct {
		in    string
		name  string
		value string
		ok    bool
	}{
		{"Hamburg;12.3", "Hamburg", "12.3", true},
		{"a;b;c", "a", "b;c", true},
		{"x;", "x", "", true},
		{"São Paulo;-3.4", "São Paulo", "-3.4", true},
		{";5.0", "", "", false},
		{"nodelimiter", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		name, value, ok := SplitRecord([]byte(tc.in))
		if ok != tc.ok {
			t.Errorf("SplitRecord(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if string(name) != tc.name || string(value) != tc.value {
			t.Errorf("SplitRecord(%q) = %q, %q, want %q, %q",
				tc.in, name, value, tc.name, tc.value)
		}
	}
}

func BenchmarkParseTemp(b *testing.B) {
	inputs := [][]byte{
		[]byte("12.3"), []byte("-5.7"), []byte("0.0"), []byte("-99.9"), []byte("42.0"),
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ParseTemp(inputs[i%len(inputs)])
	}
}
