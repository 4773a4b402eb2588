// Command xpcalc evaluates XPath operator expressions over atomic literals and prints
// one line per expression:
//
//	$ xpcalc '1 div 3' '"12" || 3 eq "123"'
//	1 div 3 => { 0.3333333333333333333333333333333333 }
//	"12" || 3 eq "123" => { true }
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/apd/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/damedic/xpath-toolbox-go/xpath"
)

// The cli struct represents all command-line flags and arguments.
//
//nolint:lll // some tags are long
var cli struct {
	ImplicitTimezone string `default:"Z"         help:"Implicit timezone: 'Z', '±hh:mm' or 'none'."`
	Precision        uint32 `default:"34"        help:"Significant digits of non-terminating decimal quotients."`
	EmptyMode        string `default:"propagate" help:"${help_empty_mode}"                                    enum:"${enum_empty_mode}"`

	Log struct {
		Level string `default:"info" help:"${help_log_level}" enum:"${enum_log_level}"`
	} `embed:"" prefix:"log-"`

	Expressions []string `arg:"" name:"expr" help:"Expressions to evaluate."`
}

var (
	logLevels = []string{
		zap.DebugLevel.String(),
		zap.InfoLevel.String(),
		zap.WarnLevel.String(),
		zap.ErrorLevel.String(),
	}

	emptyModes = []string{
		xpath.EmptyPropagate.String(),
		xpath.EmptyStatic.String(),
	}

	kongOptions = []kong.Option{
		kong.Vars{
			"enum_empty_mode": strings.Join(emptyModes, ","),
			"enum_log_level":  strings.Join(logLevels, ","),

			"help_empty_mode": fmt.Sprintf("Empty operand handling: '%s'.", strings.Join(emptyModes, "', '")),
			"help_log_level":  fmt.Sprintf("Log level: '%s'.", strings.Join(logLevels, "', '")),
		},
		kong.DefaultEnvars("XPCALC"),
	}
)

func main() {
	kong.Parse(&cli, kongOptions...)

	level, err := zapcore.ParseLevel(cli.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	logger := setupLogger(level)
	defer logger.Sync() //nolint:errcheck // stderr can not be synced on every platform

	ctx, err := setupContext(context.Background(), cli.ImplicitTimezone, cli.Precision, cli.EmptyMode)
	if err != nil {
		logger.Sugar().Fatalf("Invalid configuration: %s.", err)
	}

	if failed := run(ctx, os.Stdout, cli.Expressions, logger); failed > 0 {
		logger.Sugar().Debugf("%d of %d expressions failed.", failed, len(cli.Expressions))
		logger.Sync() //nolint:errcheck // see above
		os.Exit(1)
	}
}

// setupLogger returns a console logger writing to stderr.
func setupLogger(level zapcore.Level) *zap.Logger {
	config := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     true,
		DisableStacktrace: true,
		Encoding:          "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			NameKey:        "N",
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := config.Build()
	if err != nil {
		log.Fatal(err)
	}
	return logger
}

// setupContext carries the evaluation settings given on the command line.
func setupContext(ctx context.Context, timezone string, precision uint32, emptyMode string) (context.Context, error) {
	tz := xpath.NoTimezone
	if timezone != "none" {
		var err error
		if tz, err = xpath.ParseTimezone(timezone); err != nil {
			return nil, fmt.Errorf("implicit timezone: %w", err)
		}
		if !tz.Present {
			return nil, fmt.Errorf("implicit timezone: use 'none' to disable it")
		}
	}
	ctx = xpath.WithImplicitTimezone(ctx, tz)

	if precision == 0 {
		return nil, fmt.Errorf("precision must be positive")
	}
	ctx = xpath.WithAPDContext(ctx, apd.BaseContext.WithPrecision(precision))

	switch emptyMode {
	case xpath.EmptyPropagate.String():
		ctx = xpath.WithEmptyOperandMode(ctx, xpath.EmptyPropagate)
	case xpath.EmptyStatic.String():
		ctx = xpath.WithEmptyOperandMode(ctx, xpath.EmptyStatic)
	default:
		return nil, fmt.Errorf("unknown empty operand mode %q", emptyMode)
	}
	return ctx, nil
}

// run evaluates every expression and writes its result to w. It returns the number of
// expressions that failed.
func run(ctx context.Context, w io.Writer, exprs []string, l *zap.Logger) int {
	var failed int
	for _, expr := range exprs {
		result, err := evaluate(ctx, expr)
		if err != nil {
			failed++
			code, _ := xpath.CodeOf(err)
			l.Warn("Evaluation failed.", zap.String("expr", expr), zap.String("code", string(code)), zap.Error(err))
			fmt.Fprintf(w, "%s => Error: %v\n", expr, err)
			continue
		}

		l.Debug("Evaluated.", zap.String("expr", expr), zap.Int("items", len(result)))
		fmt.Fprintf(w, "%s => %v\n", expr, result)
	}
	return failed
}

func evaluate(ctx context.Context, expr string) (xpath.Sequence, error) {
	e, err := xpath.Parse(expr)
	if err != nil {
		return nil, err
	}
	return xpath.Evaluate(ctx, e)
}
