package render

import "github.com/lixenwraith/twister/terminal"

// RGB is an alias to terminal.RGB so drawing code needs one import
type RGB = terminal.RGB

// Palette
var (
	RgbBackground = RGB{26, 27, 38} // Tokyo Night background
	RgbText       = RGB{220, 220, 220}
	RgbMuted      = RGB{110, 110, 130}
	RgbTitle      = RGB{140, 190, 255}

	RgbPress   = RGB{255, 220, 0}   // Yellow instruction and target outline
	RgbRelease = RGB{100, 150, 255} // Blue instruction and target outline

	RgbKeyIdleBg   = RGB{45, 47, 62}
	RgbKeyIdleFg   = RGB{150, 150, 165}
	RgbKeyHeldBg   = RGB{0, 130, 0}
	RgbKeyHeldFg   = RGB{240, 255, 240}
	RgbKeyTargetFg = RGB{0, 0, 0}

	RgbTimerGood   = RGB{0, 200, 0}
	RgbTimerWarn   = RGB{255, 200, 0}
	RgbTimerDanger = RGB{255, 60, 60}
	RgbTimerTrack  = RGB{50, 50, 60}

	RgbHeart     = RGB{255, 80, 80}
	RgbHeartLost = RGB{90, 70, 70}

	RgbGameOver = RGB{255, 80, 80}
	RgbWin      = RGB{255, 215, 0}

	RgbFlash = RGB{120, 0, 0} // Penalty tint
)

// Blend mixes src over dst by alpha in [0,1]
func Blend(dst, src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return dst
	}
	if alpha >= 1 {
		return src
	}
	mix := func(d, s uint8) uint8 {
		return uint8(float64(d) + (float64(s)-float64(d))*alpha)
	}
	return RGB{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B)}
}
