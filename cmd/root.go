// Package cmd wires up the CLI flags and drives a demo bridge session.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"embridge/bridge"
	"embridge/config"
	"embridge/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X embridge/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args, brings the editor up, visits any file
// positions given on the command line, and (when stdin is a terminal)
// runs an interactive console on the channel.
func Execute(ctx context.Context, args []string) error {
	cfg := config.New("embridge")
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("embridge", flag.ContinueOnError)

	// ── editor ───────────────────────────────────────────────────
	fs.StringVarP(&cfg.EmacsPath, "emacs", "e", cfg.EmacsPath, "Editor executable")
	fs.StringVarP(&cfg.AppName, "app", "a", cfg.AppName, "Application name shown in the editor")

	// ── channel ──────────────────────────────────────────────────
	fs.IntVar(&cfg.BasePort, "base-port", cfg.BasePort, "First candidate callback port")
	fs.IntVar(&cfg.PortStep, "port-step", cfg.PortStep, "Increment between candidate ports")
	fs.IntVar(&cfg.PortSpan, "port-span", cfg.PortSpan, "Scan window above the base port")

	timeoutSec := int(cfg.AcceptTimeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Editor callback timeout in seconds (0 waits forever)")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Validate the configuration and exit")

	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		return err
	}
	if showHelp {
		fs.Usage()
		return nil
	}
	if showVersion {
		fmt.Println("embridge " + version)
		return nil
	}

	cfg.AcceptTimeout = time.Duration(timeoutSec) * time.Second
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	logger := util.NewLogger(cfg.Verbose + 1)
	br := bridge.New(cfg, logger)
	defer br.Close()

	br.RegisterAction("echo", func(args []string) {
		logger.Info("editor says: %s", strings.Join(args, " "))
	})

	if fs.NArg() == 0 {
		if err := br.Start(); err != nil {
			return err
		}
	}
	for _, arg := range fs.Args() {
		path, line, col, err := parsePosition(arg)
		if err != nil {
			return err
		}
		if err := br.VisitFilePosition(path, line, col, ""); err != nil {
			return err
		}
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		if err := console(ctx, br, logger); err != nil {
			return err
		}
	}

	if cfg.Verbose > 0 {
		snap := br.Metrics()
		logger.Verbose("session: %d commands sent (%d bytes), %d chunks in, %d dispatched",
			snap.CommandsSent, snap.BytesOut, snap.ChunksIn, snap.Dispatched)
	}
	return nil
}

// console reads commands from stdin until EOF, "quit", or ctx
// cancellation: "<file[:line[:col]]" visits a file, ">text" appends to
// the scratch buffer, anything else is sent to the editor raw.
func console(ctx context.Context, br *bridge.Bridge, logger *util.Logger) error {
	scratch := "*embridge*"
	sc := bufio.NewScanner(os.Stdin)

	fmt.Print("> ")
	for sc.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		case strings.HasPrefix(line, "<"):
			path, ln, col, err := parsePosition(strings.TrimPrefix(line, "<"))
			if err == nil {
				err = br.VisitFilePosition(path, ln, col, "")
			}
			if err != nil {
				logger.Error("visit: %v", err)
			}
		case strings.HasPrefix(line, ">"):
			if err := br.AppendToBuffer(scratch, strings.TrimPrefix(line, ">")+"\n"); err != nil {
				logger.Error("append: %v", err)
			}
		default:
			if err := br.Eval(line); err != nil {
				logger.Error("eval: %v", err)
			}
		}
		fmt.Print("> ")
	}
	return sc.Err()
}

// parsePosition parses "path[:line[:col]]".  Line defaults to 1 and
// column to 0.
func parsePosition(arg string) (path string, line, col int, err error) {
	path, line, col = arg, 1, 0

	parts := strings.Split(arg, ":")
	if len(parts) >= 2 {
		n, perr := strconv.Atoi(parts[len(parts)-1])
		if perr == nil {
			if len(parts) >= 3 {
				if m, merr := strconv.Atoi(parts[len(parts)-2]); merr == nil {
					// path:line:col
					return strings.Join(parts[:len(parts)-2], ":"), m, n, nil
				}
			}
			// path:line
			return strings.Join(parts[:len(parts)-1], ":"), n, 0, nil
		}
	}
	return path, line, col, nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `embridge %s - drive an external Emacs as a remote display surface

Usage:
  embridge [options] [file[:line[:col]]...]

With no file arguments the editor is started and left idle.  When
stdin is a terminal an interactive console follows:
  <file[:line[:col]]   visit a file
  >text                append text to the scratch buffer
  quit                 leave (the editor keeps running)
  anything else        sent to the editor verbatim

Options:
%s`, version, fs.FlagUsages())
}
