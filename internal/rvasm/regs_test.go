package rvasm

import "testing"

func TestRegisterNumberRoundTripsToCanonicalABIName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"a0", "a0"},
		{"fp", "s0"}, // fp is an alias of s0, round-trip yields the canonical name
		{"x10", "a0"},
		{"zero", "zero"},
		{"t6", "t6"},
	}
	for _, c := range cases {
		n, ok := RegisterNumber(c.input)
		if !ok {
			t.Fatalf("RegisterNumber(%q) not recognized", c.input)
		}
		if got := ABIName(n); got != c.want {
			t.Fatalf("RegisterNumber(%q)=%d, ABIName(%d)=%q, want %q", c.input, n, n, got, c.want)
		}
	}
}

func TestRegisterNumberRejectsUnknownName(t *testing.T) {
	if _, ok := RegisterNumber("r0"); ok {
		t.Fatalf("expected r0 to be rejected as an RV32I register name")
	}
	if _, ok := RegisterNumber("x32"); ok {
		t.Fatalf("expected x32 to be rejected, only x0-x31 exist")
	}
}

func TestIsRegisterMatchesRegisterNumber(t *testing.T) {
	if !IsRegister("a5") {
		t.Fatalf("expected a5 to be recognized")
	}
	if IsRegister("notareg") {
		t.Fatalf("expected notareg to be rejected")
	}
}
