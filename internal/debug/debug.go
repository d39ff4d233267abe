package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fpsFontSize   = 20
	fpsPadding    = 12
	fpsLineHeight = fpsFontSize + 4
	// updateInterval: only refresh FPS/Mem text every N frames to reduce allocations.
	updateInterval = 30

	logFontSize   = 14
	logLineHeight = logFontSize + 3
	// LogLines is how many trailing log lines the log overlay shows.
	LogLines = 8
)

// Status is what the state line reports about the running session.
type Status struct {
	Phase    string
	Scramble string
	Cubies   int
	// Timers is the number of pending session timers.
	Timers int
	// Log holds the most recent log lines, oldest first. Only drawn when ShowLog is set.
	Log []string
}

func (s Status) String() string {
	return fmt.Sprintf("%s / %s / %d cubies / %d timers", s.Phase, s.Scramble, s.Cubies, s.Timers)
}

// Debug holds runtime debugging features (e.g. FPS display). All overlays are off by default.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	ShowState    bool
	ShowLog      bool
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMemStats runtime.MemStats
}

// New returns a Debug system with all overlays hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the memory allocation counter is drawn (top-right, under FPS).
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// SetShowState sets whether the session state line is drawn (top-right, under memory).
func (d *Debug) SetShowState(show bool) {
	d.ShowState = show
}

// SetShowLog sets whether the tail of the log is drawn (bottom-left).
func (d *Debug) SetShowLog(show bool) {
	d.ShowLog = show
}

// Draw renders any enabled debug overlays. Call last in the draw loop.
// FPS and memory text is only recomputed every updateInterval frames to limit allocations;
// the state line changes rarely and is formatted every frame.
func (d *Debug) Draw(status Status) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	y := int32(fpsPadding)
	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		drawRight(d.lastFpsText, y)
		y += fpsLineHeight
	}
	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.lastMemStats)
			mb := float64(d.lastMemStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRight(d.lastMemText, y)
		y += fpsLineHeight
	}
	if d.ShowState {
		drawRight(status.String(), y)
	}
	if d.ShowLog {
		drawLog(status.Log)
	}
}

func drawLog(lines []string) {
	if len(lines) > LogLines {
		lines = lines[len(lines)-LogLines:]
	}
	y := int32(rl.GetScreenHeight()) - fpsPadding - int32(len(lines))*logLineHeight
	for _, line := range lines {
		rl.DrawText(line, fpsPadding, y, logFontSize, rl.DarkGray)
		y += logLineHeight
	}
}

func drawRight(text string, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fpsFontSize)
	x := int32(rl.GetScreenWidth()) - w - fpsPadding
	rl.DrawText(text, x, y, fpsFontSize, rl.DarkGreen)
}
