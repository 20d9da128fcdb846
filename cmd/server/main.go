package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/diewo77/go-supplies/internal/config"
	"github.com/diewo77/go-supplies/internal/db"
	"github.com/diewo77/go-supplies/internal/repository"
	"github.com/diewo77/go-supplies/internal/services"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	importItemsFlag = flag.String("import-items", "", "Replace the item catalog from an xlsx/csv file and exit")
	importStockFlag = flag.String("import-stock", "", "Apply a stock snapshot xlsx/csv file and exit")
	exportFlag      = flag.String("export", "", "Write every view to this directory and exit")
	exportCSVFlag   = flag.Bool("export-csv", false, "Export csv files instead of xlsx")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg.Log)

	dbConn, err := db.Open(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}

	if *migrateOnlyFlag {
		if err := db.Migrate(dbConn); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migrations completed successfully")
		return
	}

	if cfg.App.Migrations {
		if err := db.Migrate(dbConn); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Debug("migrations completed")
	}

	refund, err := services.ParseRefundBasis(cfg.App.RefundBasis)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	svc := services.New(repository.NewStore(dbConn), services.Options{
		RefundBasis:       refund,
		ExpiryWarningDays: cfg.App.ExpiryWarningDays,
	}, log)

	if *importItemsFlag != "" || *importStockFlag != "" || *exportFlag != "" {
		if err := runBatch(context.Background(), svc, log); err != nil {
			log.WithError(err).Fatal("batch run failed")
		}
		return
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      NewApp(dbConn, svc, cfg.App.ExportDir, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": srv.Addr, "dev": cfg.App.Dev, "driver": cfg.Database.Driver}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
	log.Info("server stopped gracefully")
}

// runBatch performs the file operations requested on the command line in
// the order items, stock, export.
func runBatch(ctx context.Context, svc *services.Services, log logrus.FieldLogger) error {
	if path := *importItemsFlag; path != "" {
		n, err := importFile(path, func(f *os.File) (int, error) {
			return svc.Catalog.ImportItems(ctx, filepath.Base(path), f)
		})
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "items": n}).Info("item catalog imported")
	}
	if path := *importStockFlag; path != "" {
		n, err := importFile(path, func(f *os.File) (int, error) {
			imp, err := svc.Stock.Import(ctx, filepath.Base(path), f)
			if err != nil {
				return 0, err
			}
			return imp.Matched, nil
		})
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": path, "matched": n}).Info("stock snapshot imported")
	}
	if dir := *exportFlag; dir != "" {
		ext := ".xlsx"
		if *exportCSVFlag {
			ext = ".csv"
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
		paths, err := svc.Export.WriteAll(ctx, dir, ext)
		if err != nil {
			return err
		}
		log.WithField("files", paths).Info("export written")
	}
	return nil
}

func importFile(path string, fn func(*os.File) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return fn(f)
}
