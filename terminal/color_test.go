package terminal

import "testing"

func TestRGBTo256(t *testing.T) {
	tests := []struct {
		c    RGB
		want uint8
	}{
		{RGB{0, 0, 0}, 16},
		{RGB{255, 255, 255}, 231},
		{RGB{255, 0, 0}, 196},
		{RGB{0, 255, 0}, 46},
		{RGB{0, 0, 255}, 21},
		{RGB{255, 255, 0}, 226},
		{RGB{128, 128, 128}, 244},
	}
	for _, tt := range tests {
		if got := RGBTo256(tt.c); got != tt.want {
			t.Errorf("RGBTo256(%v) = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestParseColorMode(t *testing.T) {
	if ParseColorMode("256") != ColorMode256 {
		t.Error("256 not parsed")
	}
	for _, s := range []string{"truecolor", "TRUE", "24bit"} {
		if ParseColorMode(s) != ColorModeTrueColor {
			t.Errorf("%q not parsed as truecolor", s)
		}
	}

	t.Setenv("COLORTERM", "truecolor")
	if ParseColorMode("auto") != ColorModeTrueColor {
		t.Error("auto ignored COLORTERM")
	}
}

func TestScale(t *testing.T) {
	c := RGB{200, 100, 50}
	if got := c.Scale(0.5); got != (RGB{100, 50, 25}) {
		t.Errorf("Scale(0.5) = %v", got)
	}
	if got := c.Scale(2); got != c {
		t.Errorf("Scale clamps above 1, got %v", got)
	}
}
