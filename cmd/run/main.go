package main

import (
	"context"
	"flag"
	"os"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/crawler"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

type Handler struct {
	Crawler crawler.Crawler
	Logger  log.Logger
}

func NewHandler(crawler crawler.Crawler, logger log.Logger) *Handler {
	return &Handler{
		Crawler: crawler,
		Logger:  logger,
	}
}

func main() {
	version := flag.String("version", "fanout", "Crawler discipline to run (seq, fanout)")
	flag.Parse()

	ctx := context.Background()
	// loader, _ := cfg.NewMockLoader()
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		os.Exit(1)
	}
	logger, _ := log.NewCslLogger()

	var mysql *db.Mysql
	if config.Mysql.Enabled {
		mysql, _ = db.NewMysql(config)
	}

	harvester, err := crawler.FactoryCrawler(*version, logger, config, mysql)
	if err != nil {
		logger.Error(ctx, "Cannot create crawler: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Starting CI harvest (%s)", *version)
	handler := NewHandler(harvester, logger)
	if handler.Crawler.Crawl() {
		logger.Info(ctx, "Successfully!")
	} else {
		logger.Error(ctx, "Failed!")
		os.Exit(1)
	}
}
