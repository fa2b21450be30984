package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"typelint/internal/core/app"
	"typelint/internal/core/config"
	domainerrors "typelint/internal/core/errors"
	"typelint/internal/core/ports"
	"typelint/internal/engine/enumerate"
	"typelint/internal/shared/observability"
	"typelint/internal/shared/util"
	"typelint/internal/ui/report"
)

// session is the resolved state shared by check and watch.
type session struct {
	root      string
	cfg       *config.Config
	app       *app.App
	formatter ports.Formatter
	output    string
	cleanup   func()
}

func (r *runner) check(ctx context.Context, args []string) int {
	s, err := r.prepare(args)
	if err != nil {
		return r.fail(err)
	}
	defer s.cleanup()

	result, err := s.app.Analyze(ctx, ports.AnalyzeRequest{Root: s.root})
	code := r.finish(s, result, err)
	r.writeMetrics()
	return code
}

func (r *runner) watch(ctx context.Context, args []string) int {
	s, err := r.prepare(args)
	if err != nil {
		return r.fail(err)
	}
	defer s.cleanup()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = s.app.Watch(ctx, s.root, func(result *ports.AnalysisResult, err error) {
		r.finish(s, result, err)
		r.writeMetrics()
	})
	if err != nil {
		if errors.Is(err, enumerate.ErrProjectNotFound) {
			return r.finish(s, nil, err)
		}
		return r.fail(err)
	}
	return ExitPass
}

// finish renders one run and maps it to an exit code.
func (r *runner) finish(s *session, result *ports.AnalysisResult, err error) int {
	if err != nil {
		if !errors.Is(err, enumerate.ErrProjectNotFound) {
			return r.fail(err)
		}
		slog.Debug("project configuration missing", "root", s.root, "error", err)
		if emitErr := r.emit(s, app.FatalResult(s.root, s.cfg.ProjectConfig, err)); emitErr != nil {
			return r.fail(emitErr)
		}
		return ExitFail
	}
	if err := r.emit(s, result); err != nil {
		return r.fail(err)
	}
	if result.Passed {
		return ExitPass
	}
	return ExitFail
}

func (r *runner) fail(err error) int {
	fmt.Fprintln(r.stderr, "error:", err)
	attrs := []any{"code", domainerrors.CodeOf(err)}
	for _, key := range []string{domainerrors.CtxPath, domainerrors.CtxPattern, domainerrors.CtxCheck} {
		if v, ok := domainerrors.ContextValue(err, key); ok {
			attrs = append(attrs, key, v)
		}
	}
	slog.Debug("run failed", attrs...)
	return exitCodeFor(err)
}

func exitCodeFor(err error) int {
	switch domainerrors.CodeOf(err) {
	case domainerrors.CodeValidationError:
		return ExitUsage
	default:
		return ExitFail
	}
}

func (r *runner) emit(s *session, result *ports.AnalysisResult) error {
	if s.output == "" {
		return s.formatter.Format(r.stdout, result)
	}
	var buf bytes.Buffer
	if err := s.formatter.Format(&buf, result); err != nil {
		return err
	}
	if err := util.WriteFileWithDirs(s.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	slog.Info("report written", "path", s.output, "format", s.formatter.Name())
	return nil
}

func (r *runner) writeMetrics() {
	path := strings.TrimSpace(r.v.GetString(metricsOutFlagName))
	if path == "" {
		return
	}
	if err := observability.WriteTextfile(path); err != nil {
		slog.Warn("failed to write metrics", "path", path, "error", err)
	}
}

// prepare configures logging, resolves the root and builds the analyzer
// from typelint.toml, TYPELINT_* variables and flags, in that order.
func (r *runner) prepare(args []string) (*session, error) {
	cleanup := r.configureLogging()

	cwd, err := os.Getwd()
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("detect working directory: %w", err)
	}

	root, err := resolveRoot(cwd, args)
	if err != nil {
		cleanup()
		return nil, err
	}

	cfg, err := r.loadConfig(cwd, root)
	if err != nil {
		cleanup()
		return nil, err
	}

	a, err := app.New(cfg)
	if err != nil {
		cleanup()
		return nil, err
	}

	output := strings.TrimSpace(r.v.GetString(outputFlagName))
	if output != "" {
		output = config.ResolveRelative(cwd, output)
	}
	formatter, err := report.New(cfg.Output.Format, report.Options{Color: output == ""})
	if err != nil {
		cleanup()
		return nil, domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid format")
	}

	slog.Debug("resolved project", "root", root, "format", formatter.Name(), "fail_on", cfg.Output.FailOn)
	return &session{
		root:      root,
		cfg:       cfg,
		app:       a,
		formatter: formatter,
		output:    output,
		cleanup:   cleanup,
	}, nil
}

func resolveRoot(cwd string, args []string) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return config.ResolveRelative(cwd, args[0]), nil
	}
	return config.DetectProjectRoot([]string{cwd})
}

func (r *runner) loadConfig(cwd, root string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := strings.TrimSpace(r.v.GetString(configFlagName)); path != "" {
		cfg, err = config.Load(config.ResolveRelative(cwd, path))
	} else {
		cfg, err = config.LoadOptional(filepath.Join(root, config.DefaultFile))
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if r.v.IsSet(formatFlagName) {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(r.v.GetString(formatFlagName)))
	}
	if r.v.IsSet(failOnFlagName) {
		cfg.Output.FailOn = strings.ToLower(strings.TrimSpace(r.v.GetString(failOnFlagName)))
	}
	if r.v.IsSet(workersFlagName) {
		cfg.Workers = r.v.GetInt(workersFlagName)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configureLogging installs the default slog logger: text to stderr, or to a
// rotating file when --log-file is set.
func (r *runner) configureLogging() func() {
	level := slog.LevelInfo
	if r.v.GetBool(verboseFlagName) {
		level = slog.LevelDebug
	}

	var output io.Writer = r.stderr
	closeFn := func() {}
	if path := strings.TrimSpace(r.v.GetString(logFileFlagName)); path != "" {
		logWriter := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		output = logWriter
		closeFn = func() { _ = logWriter.Close() }
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return closeFn
}
