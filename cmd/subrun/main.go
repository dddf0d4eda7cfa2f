package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/subrun/subinterp/interp"
	"github.com/subrun/subinterp/luahost"
)

func main() {
	var (
		eval         = flag.String("e", "", "Source to run (instead of a script file)")
		globalsFlag  = flag.String("global", "", "Globals for the script (K=V,K2=V2; numbers and booleans are detected)")
		allowExec    = flag.Bool("allow-exec", false, "Permit running pre-compiled code objects")
		allowFork    = flag.Bool("allow-fork", false, "Permit spawning OS processes")
		allowThreads = flag.Bool("allow-threads", false, "Permit concurrent workers")
		allowDaemon  = flag.Bool("allow-daemon-threads", false, "Permit workers that outlive the run (requires -allow-threads)")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		verbose      = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	cfg := interp.Config{
		AllowExec:          *allowExec,
		AllowFork:          *allowFork,
		AllowThreads:       *allowThreads,
		AllowDaemonThreads: *allowDaemon,
	}

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	luahost.SetLogger(logger)

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(cfg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	source := *eval
	if source == "" {
		if flag.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "Usage: subrun [-allow-exec] [-allow-fork] [-allow-threads] [-global K=V,...] <script.lua>")
			fmt.Fprintln(os.Stderr, "       subrun -e '<source>'")
			fmt.Fprintln(os.Stderr, "       subrun -i  (interactive mode)")
			os.Exit(1)
		}
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read script: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
	}

	globals, err := parseGlobals(*globalsFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger, source, globals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg interp.Config, logger *zap.Logger, source string, globals map[string]any) error {
	ctx := context.Background()

	reg := interp.NewRegistry(luahost.New(), interp.WithLogger(logger))
	h, err := reg.Create(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := reg.Destroy(ctx, h.ID()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: destroy: %v\n", err)
		}
	}()

	return h.Run(ctx, source, globals, nil)
}

// parseGlobals turns "a=1,ok=true,name=sub" into a namespace map. Values
// parse as booleans first, then numbers, then fall back to strings.
func parseGlobals(s string) (map[string]any, error) {
	if s == "" {
		return nil, nil
	}
	globals := make(map[string]any)
	for _, pair := range strings.Split(s, ",") {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("malformed global %q, want K=V", pair)
		}
		globals[key] = parseValue(value)
	}
	return globals, nil
}

func parseValue(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
