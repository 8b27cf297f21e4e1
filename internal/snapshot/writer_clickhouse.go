package snapshot

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowSKMV/internal/config"
)

const createEstimatesTableStatement = `
CREATE TABLE IF NOT EXISTS %s (
    Timestamp   DateTime,
    WindowSize  UInt64,
    K           UInt32,
    M           UInt32,
    Estimate    Float64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY Timestamp;
`

// ClickHouseWriter inserts EstimateSnapshots into a ClickHouse table, one
// row per Write.
type ClickHouseWriter struct {
	conn     driver.Conn
	table    string
	interval time.Duration
}

// NewClickHouseWriter connects to ClickHouse and ensures the target table
// exists.
func NewClickHouseWriter(cfg config.ClickHouseConfig, interval time.Duration) (Writer, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = "skmv_estimates"
	}

	if err := conn.Exec(context.Background(), fmt.Sprintf(createEstimatesTableStatement, table)); err != nil {
		return nil, fmt.Errorf("failed to create %s table: %w", table, err)
	}
	log.Printf("snapshot: connected to ClickHouse and ensured %s table exists", table)

	return &ClickHouseWriter{conn: conn, table: table, interval: interval}, nil
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *ClickHouseWriter) GetInterval() time.Duration {
	return w.interval
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts one EstimateSnapshot row.
func (w *ClickHouseWriter) Write(payload interface{}, timestamp string) error {
	snap, ok := payload.(EstimateSnapshot)
	if !ok {
		return fmt.Errorf("invalid payload type for ClickHouse Writer: expected snapshot.EstimateSnapshot, got %T", payload)
	}

	batch, err := w.conn.PrepareBatch(context.Background(), fmt.Sprintf("INSERT INTO %s", w.table))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	snapshotTime, err := time.Parse("2006-01-02_15-04-05", timestamp)
	if err != nil {
		snapshotTime = snap.Timestamp
	}

	if err := batch.Append(snapshotTime, snap.Window, snap.K, snap.M, snap.Estimate); err != nil {
		return fmt.Errorf("failed to append estimate to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	log.Printf("wrote estimate snapshot to ClickHouse table %s: estimate=%f", w.table, snap.Estimate)
	return nil
}
