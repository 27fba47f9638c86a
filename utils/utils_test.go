package utils

import "testing"

func TestFloatModulo(t *testing.T) {
	for _, test := range []struct{ x, m, exp Fl }{
		{850, 792, 58},
		{792, 792, 0},
		{-10, 792, 782},
		{10, 0, 0},
	} {
		if got := FloatModulo(test.x, test.m); got != test.exp {
			t.Fatalf("FloatModulo(%g, %g): expected %g, got %g", test.x, test.m, test.exp, got)
		}
	}
}

func TestRoundPrec(t *testing.T) {
	if got := RoundPrec(1.23456, 2); got != 1.23 {
		t.Fatalf("unexpected %g", got)
	}
}

func TestSet(t *testing.T) {
	s := NewSet("head", "script")
	if !s.Has("head") || s.Has("body") {
		t.Fatal("unexpected set content")
	}
}
