// Package render previews composed animations in the terminal.
package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-neosprite/neosprite/anim"
	"github.com/valerio/go-neosprite/neosprite/sprite"
	"github.com/valerio/go-neosprite/neosprite/video"
)

// defaultFrameTime is used when the scene has no animation delay.
const defaultFrameTime = time.Second / 60

// TerminalRenderer plays a scene forever, stepping the auto-animation
// counter once per frame delay, like the hardware would.
type TerminalRenderer struct {
	screen     tcell.Screen
	compositor anim.Compositor
	groups     []sprite.Group
	frameTime  time.Duration
	counter    int

	quit     chan struct{}
	quitOnce sync.Once
}

// NewTerminalRenderer creates a renderer drawing on the real terminal.
func NewTerminalRenderer(c anim.Compositor, groups []sprite.Group, delay time.Duration) (*TerminalRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize terminal: %w", err)
	}

	return NewScreenRenderer(screen, c, groups, delay), nil
}

// NewScreenRenderer draws on an already initialized screen.
func NewScreenRenderer(screen tcell.Screen, c anim.Compositor, groups []sprite.Group, delay time.Duration) *TerminalRenderer {
	if delay <= 0 {
		delay = defaultFrameTime
	}
	return &TerminalRenderer{
		screen:     screen,
		compositor: c,
		groups:     groups,
		frameTime:  delay,
		quit:       make(chan struct{}),
	}
}

// Run draws frames until the user quits or the process is signalled. The
// screen is finalized on return.
func (t *TerminalRenderer) Run() error {
	defer func() {
		slog.Info("Finishing terminal")
		t.screen.Fini()
	}()

	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()

	go t.handleInput()

	if err := t.Step(); err != nil {
		return err
	}

	ticker := time.NewTicker(t.frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	for {
		select {
		case <-ticker.C:
			if err := t.Step(); err != nil {
				return err
			}
		case <-t.quit:
			slog.Info("Preview closed")
			return nil
		case <-signals:
			slog.Info("Received signal to stop")
			return nil
		}
	}
}

// Step composes and shows the current frame, then advances the counter.
func (t *TerminalRenderer) Step() error {
	fb, err := t.compositor.Compose(t.groups, t.counter)
	if err != nil {
		return fmt.Errorf("preview frame %d: %w", t.counter, err)
	}

	t.screen.Clear()
	DrawFrame(t.screen, fb)
	drawStatus(t.screen, TextHeight(fb.Height())+1, fmt.Sprintf("counter %d  %dx%d  q: quit", t.counter, fb.Width(), fb.Height()))
	t.screen.Show()

	t.counter++
	return nil
}

func (t *TerminalRenderer) stop() {
	t.quitOnce.Do(func() { close(t.quit) })
}

func (t *TerminalRenderer) handleInput() {
	for {
		// nil once the screen is finalized
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				t.stop()
			case tcell.KeyRune:
				if ev.Rune() == 'q' {
					t.stop()
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// DrawFrame draws fb at the top-left corner of the screen using true
// color half blocks, two pixel rows per cell. Transparent pixels keep the
// terminal background.
func DrawFrame(screen tcell.Screen, fb *video.FrameBuffer) {
	for row := 0; row < TextHeight(fb.Height()); row++ {
		for x := 0; x < fb.Width(); x++ {
			top, bottom := cellPixels(fb, x, row)

			// true color carries the shade, only transparency picks the glyph
			ch, style := ' ', tcell.StyleDefault
			switch {
			case top.A != 0 && bottom.A != 0:
				ch = halfBlockUpper
				style = style.Foreground(rgb(top)).Background(rgb(bottom))
			case top.A != 0:
				ch = halfBlockUpper
				style = style.Foreground(rgb(top))
			case bottom.A != 0:
				ch = halfBlockLower
				style = style.Foreground(rgb(bottom))
			}

			screen.SetContent(x, row, ch, nil, style)
		}
	}
}

func drawStatus(screen tcell.Screen, row int, text string) {
	for i, r := range text {
		screen.SetContent(i, row, r, nil, tcell.StyleDefault)
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
