package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fbplay/fbplay/config"
	"github.com/fbplay/fbplay/drivers/console"
	"github.com/fbplay/fbplay/drivers/display"
	"github.com/fbplay/fbplay/drivers/mp"
	"github.com/fbplay/fbplay/drivers/volume"
	"github.com/fbplay/fbplay/metrics"
	"github.com/fbplay/fbplay/video/player"
)

const usageString = `fbplay plays a QOI frame container on the framebuffer, splitting every
frame across all cores.

Usage:

	%s [flags]

Flags override the configuration file, which is overridden by FBPLAY_*
environment variables.

`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func must[T any](ret T, err error) T {
	if err != nil {
		log.Fatalln(err)
	}
	return ret
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	configPath := flag.String("config", os.Getenv("FBPLAY_CONFIG"), "YAML configuration `file`")
	envPath := flag.String("env", ".env", "dotenv `file`")
	printConfig := flag.Bool("print-config", false, "print the effective configuration as YAML and exit")
	overrides := config.BindFlags(flag.CommandLine)
	flag.Parse()

	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := config.LoadDotEnv(*envPath); err != nil {
		log.Fatalln(err)
	}
	cfg := must(config.Load(*configPath))
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalln(err)
	}
	if err := overrides.Apply(&cfg); err != nil {
		log.Fatalln(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}
	if *printConfig {
		os.Stdout.Write(must(cfg.Marshal()))
		return
	}

	logger := must(config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface, err := openSurface(cfg.Display)
	if err != nil {
		logger.Error("open display", "backend", cfg.Display.Backend, "err", err)
		os.Exit(1)
	}
	logger.Info("display", "backend", cfg.Display.Backend, "mode", surface.Mode())

	if err := run(ctx, cfg, surface, logger); err != nil {
		logger.Error("fatal", "err", err)
		console.Fatal(ctx, surface, err, cfg.FatalStall)
		surface.Close()
		os.Exit(1)
	}
	surface.Close()
}

func openSurface(cfg config.Display) (display.Surface, error) {
	if cfg.Backend == "memory" {
		return display.NewMemory(display.Mode{Width: cfg.Width, Height: cfg.Height, Stride: cfg.RowStride()})
	}
	return display.OpenFBDev(cfg.Device)
}

func run(ctx context.Context, cfg config.Config, surface display.Surface, log *slog.Logger) error {
	host := mp.NewHost(mp.Options{Pin: !cfg.NoPin, Processors: cfg.Processors, Log: log})
	count, err := host.Count()
	if err != nil {
		return err
	}
	cores, err := player.Cores(host, cfg.Cores)
	if err != nil {
		return err
	}
	log.Info("processors", "total", count.Total, "enabled", count.Enabled, "cores", cores)

	vol, err := volume.Open(cfg.Volume, cfg.Partition)
	if err != nil {
		return fmt.Errorf("open volume: %w", err)
	}
	defer vol.Close()
	raw, err := vol.ReadFile(cfg.Video)
	if err != nil {
		return fmt.Errorf("read video: %w", err)
	}
	log.Info("video loaded", "volume", cfg.Volume, "kind", vol.Kind(), "path", cfg.Video, "size", len(raw))

	var met *metrics.Metrics
	if cfg.Metrics != "" {
		met = metrics.New()
		srv := &http.Server{Addr: cfg.Metrics, Handler: met.Router(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server", "err", err)
			}
		}()
		defer srv.Close()
		log.Info("metrics listening", "addr", cfg.Metrics)
	}

	pctx, err := player.Build(raw, surface, cores, player.Options{Log: log, Metrics: met})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Info("stopping")
		pctx.Stop()
	}()

	host.BindPrimary()
	return player.Play(host, pctx)
}
