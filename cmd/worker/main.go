// Worker consumes transfer decision events from Kafka and pushes them to Loki.
// Set KAFKA_BROKERS, TELEMETRY_KAFKA_TOPIC, KAFKA_GROUP_ID and LOKI_URL.
// Offsets are committed only after Loki accepts the entry, so a restart replays
// events whose push failed.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"transfer-gate/internal/config"
	"transfer-gate/internal/telemetry/loki"
)

const (
	pushTimeout  = 10 * time.Second
	retryBackoff = 2 * time.Second
)

// messageSource is the part of *kafka.Reader the worker uses.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// eventSink is the part of *loki.Client the worker uses.
type eventSink interface {
	PushEventJSON(ctx context.Context, rawJSON []byte) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	brokers := cfg.TelemetryKafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("worker: KAFKA_BROKERS is required")
	}
	sink, err := loki.NewClient(cfg.LokiURL, "", nil)
	if err != nil {
		log.Fatalf("worker: LOKI_URL: %v", err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    cfg.TelemetryKafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("worker: consuming from %s (group %s), pushing to %s", cfg.TelemetryKafkaTopic, cfg.KafkaGroupID, cfg.LokiURL)
	consume(ctx, reader, sink)
	log.Println("worker: stopped")
}

// consume forwards messages until ctx is done. A message whose push fails is
// retried after retryBackoff and not committed until it succeeds.
func consume(ctx context.Context, src messageSource, sink eventSink) {
	for {
		msg, err := src.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("worker: kafka fetch error: %v", err)
			continue
		}
		for !push(ctx, sink, msg) {
			select {
			case <-ctx.Done():
				return
			case <-time.After(retryBackoff):
			}
		}
		if err := src.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Printf("worker: commit offset %d: %v", msg.Offset, err)
		}
	}
}

func push(ctx context.Context, sink eventSink, msg kafka.Message) bool {
	pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
	defer cancel()
	if err := sink.PushEventJSON(pushCtx, msg.Value); err != nil {
		log.Printf("worker: loki push of offset %d failed: %v", msg.Offset, err)
		return false
	}
	return true
}
