package main

import (
	"context"
	"os"
	"time"
	"worldstats/internal/api"
	"worldstats/internal/config"
	"worldstats/internal/engine"
	"worldstats/internal/source"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	lvl, _ := cfg.Level()

	// 1. Logger shared by echo and the loader
	log.SetOutput(colorable.NewColorableStdout())
	log.SetLevel(lvl)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		log.EnableColor()
	} else {
		log.DisableColor()
	}

	// 2. Initialize Echo (Starts Instantly)
	e := echo.New()
	e.HideBanner = true
	e.Logger = log.New("worldstats")
	e.Logger.SetOutput(log.Output())
	e.Logger.SetLevel(lvl)
	e.JSONSerializer = api.JSONSerializer{}
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}

	// 3. Handler starts with no data and answers 503 until the load is done
	metrics := api.NewMetrics()
	h := api.NewHandler(metrics, cfg.DefaultYear)
	h.RegisterRoutes(e)

	// 4. Load dataset and boundaries in the background. Failure is fatal:
	// the dashboard never serves a partial dataset.
	go func() {
		log.Infof("BACKGROUND: loading %s and %s", cfg.Dataset, cfg.Geo)
		t0 := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()

		fetcher := &source.Fetcher{}
		if source.NeedsS3(cfg.Dataset, cfg.Geo) {
			client, err := source.NewS3Client(ctx, cfg.S3Region)
			if err != nil {
				log.Fatalf("BACKGROUND: s3 client: %v", err)
			}
			fetcher.S3 = client
		}

		payload, err := fetcher.LoadAll(ctx, cfg.Dataset, cfg.Geo)
		if err != nil {
			log.Fatalf("BACKGROUND: %v", err)
		}
		geo, err := source.ParseBoundaries(payload.Geo)
		if err != nil {
			log.Fatalf("BACKGROUND: %v", err)
		}
		ds, err := engine.BuildDataset(payload.Dataset)
		if err != nil {
			log.Fatalf("BACKGROUND: %v", err)
		}

		h.SetData(ds, geo)
		log.Infof("BACKGROUND: load complete in %v. API is fully ready.", time.Since(t0))
	}()

	// 5. Start Server
	log.Infof("Server ready on %s (data loading in background...)", cfg.Addr)
	e.Logger.Fatal(e.Start(cfg.Addr))
}
