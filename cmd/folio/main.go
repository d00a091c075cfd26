package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/3-lines-studio/folio"
	"github.com/3-lines-studio/folio/internal/adapters/cli"
	"github.com/3-lines-studio/folio/internal/adapters/env"
	"github.com/3-lines-studio/folio/internal/config"
)

func main() {
	output := cli.NewOutput()

	if len(os.Args) < 2 {
		usage(output)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = serve(ctx, output, os.Args[2:])
	case "export":
		err = export(ctx, output, os.Args[2:])
	case "-h", "--help", "help":
		usage(output)
		return
	default:
		output.PrintError("Unknown command %q", os.Args[1])
		usage(output)
		os.Exit(1)
	}

	if err != nil {
		output.PrintError("%v", err)
		os.Exit(1)
	}
}

func usage(output *cli.Output) {
	output.PrintHeader("Folio")
	output.PrintStep("Usage:")
	output.PrintStep("  folio serve  [-config folio.yaml] [-addr :8080]")
	output.PrintStep("  folio export [-config folio.yaml] [-out dist]")
}

func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if env.DetectMode().IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func load(args []string, name string, extra func(*flag.FlagSet)) (*config.Config, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := flags.String("config", config.FileName, "path to the site config")
	if extra != nil {
		extra(flags)
	}
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.LoadOptional(*configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, output *cli.Output, args []string) error {
	var addr string
	cfg, err := load(args, "serve", func(flags *flag.FlagSet) {
		flags.StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	})
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	logger := setupLogger()
	app, err := folio.New(cfg, folio.WithLogger(logger))
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	output.PrintHeader("Folio")
	output.PrintSuccess("Serving %d pages on %s", len(app.Pages()), output.Green(addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	output.PrintDone("Stopped")
	return nil
}

func export(ctx context.Context, output *cli.Output, args []string) error {
	var outDir string
	cfg, err := load(args, "export", func(flags *flag.FlagSet) {
		flags.StringVar(&outDir, "out", "dist", "output directory")
	})
	if err != nil {
		return err
	}

	output.PrintHeader("Folio Export")

	app, err := folio.New(cfg, folio.WithLogger(setupLogger()))
	if err != nil {
		return err
	}

	start := time.Now()
	files, err := app.Export(ctx, outDir)
	if err != nil {
		return err
	}

	for _, f := range files {
		rel, relErr := filepath.Rel(outDir, f)
		if relErr != nil {
			rel = f
		}
		output.PrintFile(rel)
	}
	output.PrintSuccess("Exported %d files to %s in %s", len(files), outDir, time.Since(start).Round(time.Millisecond))
	return nil
}
