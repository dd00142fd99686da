package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "charm.land/bubbletea/v2"

	"github.com/go-authgate/bet-console/tui"
)

func isTTY() bool {
	fi, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

func main() {
	cfg, err := initConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := newLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage())
		os.Exit(2)
	}

	if isTTY() {
		// Run TUI program on stderr so stdout pipes are not corrupted
		m := tui.NewModel()
		// WithInput(nil): disable stdin/keyboard input so BubbleTea skips terminal
		// capability queries (?2026/?2027). Ctrl+C is handled by signal.NotifyContext.
		p := tea.NewProgram(m, tea.WithOutput(os.Stderr), tea.WithInput(nil))

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
			}
		}()

		d := tui.NewProgramDisplayer(p)
		d.Banner("Bet Console")
		runErr := run(cfg, log, d, args)
		p.Quit() // let BubbleTea drain terminal query responses before exiting
		wg.Wait()
		if runErr != nil {
			os.Exit(exitCode(runErr))
		}
	} else {
		d := tui.NewPlainDisplayer(os.Stderr)
		if err := run(cfg, log, d, args); err != nil {
			os.Exit(exitCode(err))
		}
	}
}

func exitCode(err error) int {
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

// run opens the configured session store and executes one command.
func run(cfg *config, log *slog.Logger, d tui.Displayer, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, d, log, nil)
	if err != nil {
		d.Fatal(err)
		return err
	}
	defer a.close()

	if err := a.ping(ctx); err != nil {
		d.Fatal(err)
		return err
	}
	return execute(ctx, a, args)
}

// execute runs args against a and reports the outcome on the displayer.
func execute(ctx context.Context, a *app, args []string) error {
	if err := dispatch(ctx, a, args); err != nil {
		a.log.Debug("command failed", "args", args, "error", err)
		a.d.Fatal(err)
		return err
	}
	a.d.Done()
	return nil
}
