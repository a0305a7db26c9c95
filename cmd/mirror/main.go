// Command mirror is the CLI entry point: the mirror subcommand starts the
// full desktop client (window, video, audio, input); tap/stats/hierarchy
// are one-shot commands that open a control connection, issue a single
// command, print the device's reply (stats, hierarchy), and exit.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/cowby123/mirror-go/internal/app"
	"github.com/cowby123/mirror-go/internal/config"
	"github.com/cowby123/mirror-go/internal/control"
	"github.com/cowby123/mirror-go/internal/logx"
)

// The mirror subcommand owns an SDL window and an OpenGL context, both of
// which are bound to the OS thread that creates them (mandatory on macOS,
// and GL contexts are thread-local everywhere). Locking main's goroutine
// to its OS thread before any of that happens keeps the Go scheduler from
// migrating it mid-run, per spec.md §5's "runs on the thread that owns the
// window" contract.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "mirror":
		err = runMirror(os.Args[2:])
	case "tap":
		err = runTap(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "hierarchy":
		err = runHierarchy(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: mirror <command> [flags]

commands:
  mirror      start the desktop client (video, audio, input)
  tap X Y     send a single tap at device coordinates X,Y
  stats       request and print the device agent's stats counters
  hierarchy   request and print the device's view hierarchy dump`)
}

func runMirror(args []string) error {
	fs := flag.NewFlagSet("mirror", flag.ExitOnError)
	getCfg := config.RegisterMirrorFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg := getCfg()

	logx.SetVerbose(cfg.Verbose)
	if cfg.Verbose {
		logx.SetLevel(logx.LevelDebug)
	}
	logx.Infof("MAIN", "connecting to %s (video=%d control=%d audio=%d)",
		cfg.Host, cfg.VideoPort(), cfg.ControlPort(), cfg.AudioPort())

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	return a.Run()
}

func runTap(args []string) error {
	fs := flag.NewFlagSet("tap", flag.ExitOnError)
	getGlobal := config.RegisterGlobalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 2 {
		return fmt.Errorf("tap requires exactly two positional arguments: X Y")
	}
	x, err := strconv.ParseFloat(rest[0], 64)
	if err != nil {
		return fmt.Errorf("invalid X: %w", err)
	}
	y, err := strconv.ParseFloat(rest[1], 64)
	if err != nil {
		return fmt.Errorf("invalid Y: %w", err)
	}

	g := getGlobal()
	client, err := control.Dial(g.Host, g.Port+1)
	if err != nil {
		return fmt.Errorf("dial control: %w", err)
	}
	defer client.Close()

	return client.SendInput(control.Tap{X: x, Y: y})
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	getGlobal := config.RegisterGlobalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	g := getGlobal()
	client, err := control.Dial(g.Host, g.Port+1)
	if err != nil {
		return fmt.Errorf("dial control: %w", err)
	}
	defer client.Close()

	resp, err := client.RPC(control.Stats{})
	if err != nil {
		return fmt.Errorf("stats rpc: %w", err)
	}
	return printJSON(resp)
}

func runHierarchy(args []string) error {
	fs := flag.NewFlagSet("hierarchy", flag.ExitOnError)
	getGlobal := config.RegisterGlobalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	g := getGlobal()
	client, err := control.Dial(g.Host, g.Port+1)
	if err != nil {
		return fmt.Errorf("dial control: %w", err)
	}
	defer client.Close()

	resp, err := client.RPC(control.Hierarchy{})
	if err != nil {
		return fmt.Errorf("hierarchy rpc: %w", err)
	}
	return printJSON(resp)
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
