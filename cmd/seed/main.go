package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/xtrntr/marketdash/internal/config"
	"github.com/xtrntr/marketdash/internal/dataset"
	"github.com/xtrntr/marketdash/internal/db"
)

// Seed the database with the marketplace CSV datasets
func main() {
	fromURL := flag.Bool("http", false, "download the CSV files from DASHBOARD_DATA_URL instead of DASHBOARD_DATA_DIR")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	ctx := context.Background()

	// Create the tables if needed
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	database, err := db.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(ctx)

	// First check if we already have orders
	orders, err := database.CountOrders(ctx)
	if err != nil {
		log.Fatalf("Failed to check orders: %v", err)
	}
	if orders > 0 {
		fmt.Printf("Database already has %d orders. No need to seed.\n", orders)
		os.Exit(0)
	}

	var src dataset.Source = dataset.DirSource{Dir: cfg.DataDir}
	if *fromURL {
		src = dataset.NewHTTPSource(cfg.DataURL, cfg.HTTPRequestsPerSecond)
	}

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()
	ds, err := dataset.Load(loadCtx, src, log)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}

	if err := database.CopyDataset(ctx, ds); err != nil {
		log.Fatalf("Failed to copy dataset: %v", err)
	}

	log.WithFields(toFields(ds.Counts())).Info("Seeded tables")
	fmt.Println("Successfully seeded the database with the marketplace datasets!")
}

func toFields(counts map[string]int) logrus.Fields {
	fields := make(logrus.Fields, len(counts))
	for k, v := range counts {
		fields[k] = v
	}
	return fields
}
