package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/repoharvest/ci-crawler/cfg"
	"github.com/repoharvest/ci-crawler/internal/model"
	"github.com/repoharvest/ci-crawler/pkg/db"
	"github.com/repoharvest/ci-crawler/pkg/kafka"
	"github.com/repoharvest/ci-crawler/pkg/log"
)

func main() {
	// Load configuration
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, _ := log.NewCslLogger()

	// Setup database
	mysql, _ := db.NewMysql(config)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create model and make sure the table exists
	recordModel, _ := model.NewRecord(config, logger, mysql)
	if err := mysql.Migrate(recordModel); err != nil {
		logger.Error(ctx, "Failed to migrate records table: %v", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	startRecordConsumer(ctx, config, logger, recordModel)

	// Wait for termination signal
	<-sigCh
	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	cancel()
}

func startRecordConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, recordModel *model.Record) {
	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicRecord, "record-consumer-group")

	// Collect messages in batches before hitting the database
	batchSize := 100
	batchTimeout := 5 * time.Second
	messages := make(chan model.RecordMessage, batchSize*2)

	// Batch processor
	go processBatchedRecords(ctx, messages, batchSize, batchTimeout, logger, recordModel)

	// Register handler for record messages
	consumer.RegisterHandler("record", func(data []byte) error {
		var recordMsg model.RecordMessage
		if err := json.Unmarshal(data, &recordMsg); err != nil {
			return fmt.Errorf("failed to unmarshal record message: %w", err)
		}

		select {
		case messages <- recordMsg:
			// Message added to batch
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})

	// Start consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Record consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Record consumer started successfully")
}

func processBatchedRecords(ctx context.Context, messages <-chan model.RecordMessage, batchSize int,
	batchTimeout time.Duration, logger log.Logger, recordModel *model.Record) {

	var batch []model.RecordMessage
	timer := time.NewTimer(batchTimeout)

	for {
		select {
		case <-ctx.Done():
			// Process remaining messages before exiting
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, logger, recordModel)
			}
			return

		case msg := <-messages:
			batch = append(batch, msg)

			// Process batch when it reaches the desired size
			if len(batch) >= batchSize {
				processSingleBatch(ctx, batch, logger, recordModel)
				batch = nil // Reset batch
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			// Process batch on timeout if there are any messages
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, logger, recordModel)
				batch = nil // Reset batch
			}
			timer.Reset(batchTimeout)
		}
	}
}

func processSingleBatch(ctx context.Context, batch []model.RecordMessage, logger log.Logger, recordModel *model.Record) {
	if len(batch) == 0 {
		return
	}

	logger.Info(ctx, "Processing batch of %d records", len(batch))

	err := recordModel.CreateBatch(batch)
	if err != nil {
		logger.Error(ctx, "Failed to save batch of records: %v", err)
	} else {
		logger.Info(ctx, "Successfully saved batch of %d records", len(batch))
	}
}
