package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/peterh/liner"
	"go.uber.org/zap"

	"molscript/model"
	"molscript/script"
	"molscript/token"
	"molscript/trace"
)

func main() {
	modelPath := flag.String("model", "", "Model fixture file (YAML)")
	evalSource := flag.String("eval", "", "Run a script given on the command line (e.g., \"{carbon}.size\")")
	scriptPath := flag.String("script", "", "Run a script file")
	configPath := flag.String("config", "", "Engine config file (YAML)")
	debug := flag.Bool("debug", false, "Development logging at debug level")

	// Trace flags
	traceEnabled := flag.Bool("trace", false, "Enable statement tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob over statement text, e.g., 'select*')")

	flag.Parse()

	cfg := script.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = script.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	logger, err := newLogger(cfg, *debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	var filters []string
	if *traceFilter != "" {
		filters = strings.Split(*traceFilter, ",")
		for i := range filters {
			filters[i] = strings.TrimSpace(filters[i])
		}
	}
	trace.Init(*traceEnabled, filters, logger)

	opts := []script.Option{
		script.WithConfig(cfg),
		script.WithLogger(logger),
		script.WithOutput(os.Stdout),
		script.WithTracer(trace.Global()),
		script.WithCommandHandler(func(name string, args []*token.Token) error {
			logger.Info("command", zap.String("name", name), zap.Stringer("args", token.Program(args)))
			return nil
		}),
	}

	var engine *script.Engine
	if *modelPath != "" {
		store, err := model.Load(*modelPath)
		if err != nil {
			log.Fatalf("Failed to load model: %v", err)
		}
		logger.Info("model loaded", zap.String("path", *modelPath), zap.Int("atoms", store.AtomCount()))
		engine, err = script.New(store, opts...)
		if err != nil {
			log.Fatalf("Failed to create engine: %v", err)
		}
	} else {
		engine, err = script.New(nil, opts...)
		if err != nil {
			log.Fatalf("Failed to create engine: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case *evalSource != "":
		if !runSource(ctx, engine, *evalSource) {
			os.Exit(1)
		}
	case *scriptPath != "":
		data, err := os.ReadFile(*scriptPath)
		if err != nil {
			log.Fatalf("Failed to read script: %v", err)
		}
		if !runSource(ctx, engine, string(data)) {
			os.Exit(1)
		}
	default:
		repl(ctx, engine)
	}
}

// newLogger builds a development logger for -debug, otherwise a
// production logger at the configured level
func newLogger(cfg script.Config, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// runSource runs a script and prints the value of each expression
// statement
func runSource(ctx context.Context, engine *script.Engine, source string) bool {
	vals, err := engine.Run(ctx, source)
	for _, v := range vals {
		fmt.Println(engine.Format(v))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}
	return true
}

// repl reads one script line at a time with line editing and history
func repl(ctx context.Context, engine *script.Engine) {
	l := liner.NewLiner()
	defer l.Close()
	l.SetCtrlCAborts(true)
	for {
		line, err := l.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			fmt.Println()
			return
		}
		if err != nil {
			log.Fatal(err)
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		}
		l.AppendHistory(line)
		runSource(ctx, engine, line)
		if ctx.Err() != nil {
			return
		}
	}
}
