// Command arena opens the ring arena in a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/natefinch/lumberjack.v2"

	"ring-arena/arena"
	"ring-arena/config"
	"ring-arena/core"
	"ring-arena/frame"
	"ring-arena/internal/opengl"
	"ring-arena/panel"
	"ring-arena/scene"
)

func main() {
	flag.Parse()
	logger := newLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Arena stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	var w io.Writer = os.Stderr
	if *logFileFlag != "" {
		w = &lumberjack.Logger{
			Filename:   *logFileFlag,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFlag.value}))
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	logger.Info("Starting", "config", *configFlag, "width", cfg.Window.Width, "height", cfg.Window.Height)

	window, err := core.NewWindow(core.WindowConfig{
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Title:      cfg.Window.Title,
		Resizable:  true,
		VSync:      cfg.Window.VSync,
		Fullscreen: cfg.Window.Fullscreen,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	backend, err := opengl.NewRenderer(window.GetFramebufferSize, logger)
	if err != nil {
		return err
	}
	app, err := arena.New(cfg, backend, logger)
	if err != nil {
		backend.Destroy()
		return err
	}
	defer app.Engine.Destroy()

	resize := func(width, height int) {
		fbW, _ := window.GetFramebufferSize()
		app.Engine.Resize(width, height, deviceScale(width, fbW, window.ContentScale()))
	}
	resize(window.Width, window.Height)
	window.OnResize(resize)
	bindInput(window, app)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fps := frame.FPSCounter{Window: time.Second}
	loop := frame.Loop{Display: window, MaxFPS: cfg.Render.MaxFPS, Logger: logger}
	err = loop.Run(ctx, func(t frame.Tick) error {
		if err := app.Tick(t); err != nil {
			return err
		}
		if rate, ok := fps.Frame(time.Now()); ok {
			stats := app.Engine.Stats()
			window.SetTitle(fmt.Sprintf("%s | %.0f fps | %s triangles",
				cfg.Window.Title, rate, humanize.Comma(int64(stats.Triangles))))
		}
		return nil
	})
	logger.Info("Shutting down")
	return err
}

func bindInput(window *core.Window, app *arena.Context) {
	window.SetKeyCallback(func(key, mods int) {
		if key == core.KeyEscape {
			window.Close()
			return
		}
		app.Key(panelKey(key), mods&core.ModShift != 0)
	})
	window.SetMouseButtonCallback(func(button int, pressed bool, _ int) {
		b, ok := pointerButton(button)
		if !ok {
			return
		}
		if !pressed {
			app.PointerUp(b)
			return
		}
		x, y := window.GetCursorPos()
		app.PointerDown(b, x, y)
	})
	window.SetCursorCallback(app.PointerMove)
	window.SetScrollCallback(func(_, yoff float64) {
		x, y := window.GetCursorPos()
		app.Wheel(x, y, yoff)
	})
}

// deviceScale is the framebuffer pixels per window unit. Window sizes and
// cursor positions share one coordinate space, so the panel layout and
// hit tests agree whatever the platform reports.
func deviceScale(width, framebufferWidth int, fallback float32) float32 {
	if width <= 0 || framebufferWidth <= 0 {
		return fallback
	}
	return float32(framebufferWidth) / float32(width)
}

func pointerButton(button int) (int, bool) {
	switch button {
	case core.MouseLeft:
		return scene.ButtonLeft, true
	case core.MouseRight:
		return scene.ButtonRight, true
	case core.MouseMiddle:
		return scene.ButtonMiddle, true
	}
	return 0, false
}

func panelKey(key int) panel.Key {
	switch key {
	case core.KeyUp:
		return panel.KeyUp
	case core.KeyDown:
		return panel.KeyDown
	case core.KeyLeft:
		return panel.KeyLeft
	case core.KeyRight:
		return panel.KeyRight
	case core.KeyH:
		return panel.KeyToggle
	}
	return panel.KeyNone
}
