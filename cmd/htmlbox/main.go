package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/zeusync/htmlbox/internal/config"
	"github.com/zeusync/htmlbox/internal/core/board"
	"github.com/zeusync/htmlbox/internal/core/observability/log"
	"github.com/zeusync/htmlbox/internal/injector"
)

var errQuit = errors.New("quit")

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	serve := flag.Bool("serve", false, "serve the board over websocket instead of reading keys from stdin")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			os.Exit(1)
		}
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing:", err)
		os.Exit(1)
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		err = app.HTTP.Run(ctx)
	} else {
		err = runKeys(ctx, app, os.Stdin, os.Stdout)
		_ = app.Bridge.Close()
	}
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		app.Logger.Error("Stopped with error", log.Error(err))
		os.Exit(1)
	}
}

// runKeys reads one direction per line from in and rolls the board until q or EOF.
// The reader goroutine is not joined: a blocked read on stdin ends with the process.
func runKeys(ctx context.Context, app *injector.App, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		defer func() { readErr <- sc.Err() }()
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintf(out, "%s: %s\n", app.Prism.Name(), app.Prism.Orientation())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if err := ctx.Err(); err != nil {
					return err
				}
				return <-readErr
			}
			if line == "" {
				continue
			}
			if line == "q" || line == "quit" {
				return errQuit
			}
			d, err := board.ParseDirection(line)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			res := app.Board.Move(ctx, d)
			if res.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", d, res.Err)
				continue
			}
			p := app.Prism.Position()
			fmt.Fprintf(out, "%s: %s at (%g, %g, %g)\n", d, res.Orientation, p.X(), p.Y(), p.Z())
		}
	}
}
