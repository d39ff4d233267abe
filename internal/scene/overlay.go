package scene

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"rubik-viewer/internal/loading"
)

const (
	overlayFontSize  = 28
	bannerFontSize   = 18
	bannerPadding    = 12
	overlayBaseAlpha = 235
)

// drawLoading draws the loading overlay at its current opacity, plus a one-line error banner
// when the model failed to load. The banner outlives the overlay.
func drawLoading(screen *loading.Screen) {
	if screen == nil {
		return
	}
	w := int32(rl.GetScreenWidth())
	h := int32(rl.GetScreenHeight())
	if screen.Visible && screen.Opacity > 0 {
		alpha := uint8(float32(overlayBaseAlpha) * screen.Opacity)
		rl.DrawRectangle(0, 0, w, h, rl.NewColor(24, 24, 28, alpha))
		if !screen.Hiding() {
			text := "Loading..."
			tw := rl.MeasureText(text, overlayFontSize)
			rl.DrawText(text, (w-tw)/2, h/2-overlayFontSize/2, overlayFontSize, rl.NewColor(240, 240, 240, alpha))
		}
	}
	if screen.Err != nil {
		text := "Could not load model: " + screen.Err.Error()
		rl.DrawRectangle(0, h-bannerFontSize-2*bannerPadding, w, bannerFontSize+2*bannerPadding, rl.NewColor(160, 30, 30, 230))
		rl.DrawText(text, bannerPadding, h-bannerFontSize-bannerPadding, bannerFontSize, rl.White)
	}
}
