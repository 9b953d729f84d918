// Command fieldcheck validates input against field patterns and serves live
// validation over WebSocket.
//
// Usage:
//
//	fieldcheck [flags] check <field> <input>
//	fieldcheck [flags] dot <field>
//	fieldcheck [flags] serve
//
// With -pattern the <field> argument is omitted and the given regex literal
// is used instead. serve listens on $FIELDCHECK_ADDR (default :8080); the log
// level comes from $FIELDCHECK_LOG_LEVEL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coregx/incregex"
	"github.com/coregx/incregex/internal/fielddef"
	"github.com/coregx/incregex/internal/server"
	"github.com/coregx/incregex/meta"
	"github.com/coregx/incregex/nfa"
	"github.com/coregx/incregex/pattern"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var errUsage = errors.New("usage")

type options struct {
	fieldsPath string
	literal    string
	mode       incregex.Mode
	strict     bool
}

type app struct {
	opts      options
	fields    *fielddef.Set
	validator *incregex.Validator
	logger    *slog.Logger
	stdout    io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fieldcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: fieldcheck [flags] check <field> <input>")
		fmt.Fprintln(stderr, "       fieldcheck [flags] dot <field>")
		fmt.Fprintln(stderr, "       fieldcheck [flags] serve")
		fs.PrintDefaults()
	}

	var opts options
	fs.StringVar(&opts.fieldsPath, "fields", "", "field definition file (default: built-in fields)")
	fs.StringVar(&opts.literal, "pattern", "", "regex literal such as /^[0-9]{5}$/ used instead of a field")
	fs.TextVar(&opts.mode, "mode", incregex.ModeType, "entry mode for check: type or paste")
	fs.BoolVar(&opts.strict, "strict", false, "report patterns that fail to build instead of accepting all input")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: parseLogLevel(getEnv("FIELDCHECK_LOG_LEVEL", "info")),
	}))

	a, err := newApp(opts, logger, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "fieldcheck: %v\n", err)
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	switch cmd, cmdArgs := rest[0], rest[1:]; cmd {
	case "check":
		err = a.check(cmdArgs)
	case "dot":
		err = a.dot(cmdArgs)
	case "serve":
		if len(cmdArgs) != 0 {
			err = errUsage
			break
		}
		err = a.serve(ctx, getEnv("FIELDCHECK_ADDR", ":8080"))
	default:
		err = errUsage
	}

	switch {
	case errors.Is(err, errUsage):
		fs.Usage()
		return 2
	case err != nil:
		fmt.Fprintf(stderr, "fieldcheck: %v\n", err)
		return 1
	}
	return 0
}

func newApp(opts options, logger *slog.Logger, stdout io.Writer) (*app, error) {
	fields := fielddef.Builtin()
	if opts.fieldsPath != "" {
		var err error
		if fields, err = fielddef.Load(opts.fieldsPath); err != nil {
			return nil, err
		}
	}

	cfg := incregex.DefaultConfig()
	cfg.PermissiveFallback = !opts.strict
	v, err := incregex.NewValidator(cfg, meta.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &app{
		opts:      opts,
		fields:    fields,
		validator: v,
		logger:    logger,
		stdout:    stdout,
	}, nil
}

// resolve picks the pattern named by -pattern or by the leading argument
// and returns the remaining arguments.
func (a *app) resolve(args []string) (pattern.Pattern, []string, error) {
	if a.opts.literal != "" {
		p, err := pattern.ParseLiteral(a.opts.literal)
		return p, args, err
	}
	if len(args) == 0 {
		return pattern.Pattern{}, nil, errUsage
	}
	f, ok := a.fields.Lookup(args[0])
	if !ok {
		return pattern.Pattern{}, nil, fmt.Errorf("unknown field %q", args[0])
	}
	return f.Pattern, args[1:], nil
}

func (a *app) check(args []string) error {
	p, rest, err := a.resolve(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errUsage
	}
	res, err := a.validator.Apply(p, a.opts.mode, rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "pattern:   %s\n", p)
	fmt.Fprintf(a.stdout, "status:    %s\n", res.Status)
	fmt.Fprintf(a.stdout, "value:     %q\n", res.Value)
	fmt.Fprintf(a.stdout, "truncated: %t\n", res.Truncated)
	return nil
}

func (a *app) dot(args []string) error {
	p, rest, err := a.resolve(args)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return errUsage
	}
	m, err := a.validator.Matcher(p)
	if err != nil {
		return err
	}
	if m.IsPermissive() {
		return fmt.Errorf("%s has no automaton: %w", p, m.Err())
	}
	return nfa.WriteDOT(a.stdout, m.NFA())
}

func (a *app) serve(ctx context.Context, addr string) error {
	h := server.NewHandler(a.validator, a.fields, a.logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	srv.RegisterOnShutdown(h.Close)

	errc := make(chan error, 1)
	go func() {
		a.logger.Info("starting fieldcheck",
			"version", Version,
			"addr", addr,
			"fields", a.fields.Len(),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
