package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the window Run opens.
type Window struct {
	Title         string
	Width, Height int32
	FPS           int32
}

// DefaultWindow is a resizable 1280x720 window at 60 FPS.
func DefaultWindow() Window {
	return Window{Title: "Rubik's Cube", Width: 1280, Height: 720, FPS: 60}
}

// Run opens the window and drives the main loop. resize is called once with the initial
// size and again whenever the window is resized, always before update of the same frame.
// Each frame it then calls update (input, animation) and draw between BeginDrawing and
// EndDrawing; draw is responsible for clearing. ESC or the close button ends the loop.
func Run(w Window, resize func(width, height int), update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(w.FPS)

	if resize != nil {
		resize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}
	for !rl.WindowShouldClose() {
		if resize != nil && rl.IsWindowResized() {
			resize(rl.GetScreenWidth(), rl.GetScreenHeight())
		}
		update()

		rl.BeginDrawing()
		draw()
		rl.EndDrawing()
	}
}
