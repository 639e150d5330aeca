package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"perfume-dashboard/charts"
	"perfume-dashboard/config"
	"perfume-dashboard/dashboard"
	"perfume-dashboard/metrics"
	"perfume-dashboard/models"
	"perfume-dashboard/services"
	"perfume-dashboard/snapshot"
	"perfume-dashboard/storage"
	"perfume-dashboard/utils"
)

const usage = `usage: perfume-dashboard [command] [flags]

commands:
  serve      load the listings and serve the dashboard (default)
  summary    print a summary report of the listings (-from source|postgres)
  export     write the normalized listings (-to csv|xlsx|postgres)
  snapshot   save a PNG of a running dashboard
`

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug())
	gin.SetMode(cfg.GinMode)

	cmd, args := "serve", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx, cfg, logger, args)
	case "summary":
		err = summary(ctx, cfg, logger, args)
	case "export":
		err = export(ctx, cfg, logger, args)
	case "snapshot":
		err = capture(ctx, cfg, logger, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

func load(ctx context.Context, cfg *config.Config, logger *utils.Logger, m *metrics.Metrics) (*models.Dataset, error) {
	opts := storage.SourceOptions{
		Timeout:    time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
	loader := services.NewLoader(services.NewDatasetCache(), logger, m, cfg.LoadConcurrency)
	return loader.Load(ctx,
		storage.NewSource(cfg.MaleSource, opts),
		storage.NewSource(cfg.FemaleSource, opts),
	)
}

func serve(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":"+cfg.Port, "listen address")
	fs.Parse(args)

	logger.Info("=== Perfume Dashboard starting ===")
	logger.Info("Sources — male: %s | female: %s", cfg.MaleSource, cfg.FemaleSource)

	m := metrics.New()
	data, err := load(ctx, cfg, logger, m)
	if err != nil {
		// The dashboard still comes up so users see why it has no data.
		logger.Error("Dataset load failed: %v", err)
		return dashboard.NewFatalServer(err, m, logger).Run(ctx, *addr)
	}

	svc := services.NewDashboardService(data, services.DashboardDefaults{
		TopLimit:           cfg.TopLimit,
		BoxDefaultBrands:   cfg.BoxDefaultBrands,
		StripDefaultBrands: cfg.StripDefaultBrands,
		ViolinCeiling:      cfg.ViolinCeiling,
	}, logger)

	return dashboard.NewServer(svc, charts.NewRenderer(0, 0), m, logger).Run(ctx, *addr)
}

func summary(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	from := fs.String("from", "source", "read listings from the CSV sources or the published postgres table")
	fs.Parse(args)

	var listings []*models.Listing
	switch *from {
	case "source":
		data, err := load(ctx, cfg, logger, nil)
		if err != nil {
			return err
		}
		listings = data.Listings

	case "postgres":
		pg, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Make sure Docker is running: docker compose up -d")
			return err
		}
		defer pg.Close()
		if listings, err = pg.FetchAll(); err != nil {
			return err
		}
		logger.Info("Fetched %d listings from PostgreSQL", len(listings))

	default:
		return fmt.Errorf("unknown summary source %q", *from)
	}

	insights := services.NewInsightService(logger)
	insights.Print(os.Stdout, "perfume listings", insights.Generate(listings))
	return nil
}

func export(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	to := fs.String("to", "csv", "destination: csv, xlsx or postgres")
	category := fs.String("category", string(models.CategoryAll), "all, male or female (Spanish labels accepted)")
	fs.Parse(args)

	cat, ok := models.ParseCategory(*category)
	if !ok {
		return fmt.Errorf("unknown category %q", *category)
	}

	data, err := load(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	rows := services.FilterByCategory(data.Listings, cat)

	switch *to {
	case "csv":
		path := filepath.Join(cfg.ExportDir, dashboard.ExportName(cat, "csv"))
		w, err := storage.NewCSVWriter(path)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Write(rows); err != nil {
			return err
		}
		logger.Info("Exported %d listings to %s", len(rows), path)

	case "xlsx":
		path := filepath.Join(cfg.ExportDir, dashboard.ExportName(cat, "xlsx"))
		w, err := storage.NewXLSXWriter()
		if err != nil {
			return err
		}
		defer w.Close()
		if err := w.Write(rows); err != nil {
			return err
		}
		if err := w.SaveAs(path); err != nil {
			return err
		}
		logger.Info("Exported %d listings to %s", len(rows), path)

	case "postgres":
		pg, err := storage.NewPostgresWriter(cfg.DSN(), logger)
		if err != nil {
			logger.Error("Make sure Docker is running: docker compose up -d")
			return err
		}
		defer pg.Close()
		if err := pg.Write(rows); err != nil {
			return err
		}
		logger.Info("Stored %d listings in PostgreSQL (table: perfume_listings)", len(rows))

	default:
		return fmt.Errorf("unknown export destination %q", *to)
	}
	return nil
}

func capture(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	url := fs.String("url", cfg.SnapshotURL, "dashboard URL")
	out := fs.String("out", cfg.SnapshotPath, "output PNG path")
	fs.Parse(args)

	c := snapshot.New(snapshot.Options{
		URL:        *url,
		Path:       *out,
		ChromeBin:  cfg.ChromeBin,
		MaxRetries: cfg.MaxRetries,
	}, logger)
	_, err := c.Save(ctx)
	return err
}
