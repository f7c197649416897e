package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"

	"superengine/config"
	"superengine/console"
	"superengine/engine"
	"superengine/logging"
)

func main() {
	configPath := flag.String("config", "engine.toml", "path to the TOML config file")
	headless := flag.Bool("console", false, "run in the terminal without a window")
	viewSheet := flag.String("view-sheet", "", "open the sprite sheet viewer on a PNG")
	cols := flag.Int("cols", 16, "sprite sheet columns for -view-sheet")
	rows := flag.Int("rows", 16, "sprite sheet rows for -view-sheet")
	music := flag.String("music", "", "background music (.mp3 or .ogg)")
	flag.Parse()

	if *viewSheet != "" {
		if err := runViewer(*viewSheet, *cols, *rows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log.File)
	if err != nil {
		log.Warn(err.Error())
	}
	defer log.Close()

	if *headless {
		err = runConsole(cfg, log)
	} else {
		game := NewGame(GameOptions{Audio: true, Music: *music})
		err = engine.New(cfg, game, engine.WithLogger(log)).Run()
	}
	if err != nil {
		log.Error(err.Error())
		log.Close()
		os.Exit(1)
	}
}

func runConsole(cfg config.Config, log *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}

	device := console.NewDevice(screen)
	kb := console.NewKeyboard()
	game := NewGame(GameOptions{})
	e := engine.New(cfg, game,
		engine.WithLogger(log),
		engine.WithDevice(device.Factory()),
		engine.WithKeyboard(kb),
	)

	runner := console.NewRunner(e, device, kb)
	runner.Status = game

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runner.Run(ctx)
}

func runViewer(filename string, cols, rows int) error {
	viewer, err := NewSheetViewer(filename, cols, rows, 36) // larger cells for better visibility
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(viewer.Layout(0, 0))
	ebiten.SetWindowTitle("Sprite Sheet Viewer - " + filename)
	return ebiten.RunGame(viewer)
}
