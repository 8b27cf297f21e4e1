// Package query serves historical Estimate() snapshots out of ClickHouse
// over HTTP, the read side of internal/snapshot's ClickHouseWriter.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"FlowSKMV/internal/config"
)

// EstimatePoint is one row of the historical estimate series.
type EstimatePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Window    uint64    `json:"window"`
	K         uint32    `json:"k"`
	M         uint32    `json:"m"`
	Estimate  float64   `json:"estimate"`
}

// Range bounds a historical query. A zero End means "up to now".
type Range struct {
	Start time.Time
	End   time.Time
}

// Querier is implemented by every backing store for historical estimates.
type Querier interface {
	QueryRange(ctx context.Context, r Range) ([]EstimatePoint, error)
}

// clickhouseQuerier implements Querier against the table
// snapshot.ClickHouseWriter writes to.
type clickhouseQuerier struct {
	conn  clickhouse.Conn
	table string
}

// NewClickHouseQuerier connects to ClickHouse for historical reads.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	table := cfg.Table
	if table == "" {
		table = "skmv_estimates"
	}

	return &clickhouseQuerier{conn: conn, table: table}, nil
}

// QueryRange returns every estimate point with Timestamp in [r.Start,
// r.End], ordered by time. A zero r.End is treated as "now".
func (q *clickhouseQuerier) QueryRange(ctx context.Context, r Range) ([]EstimatePoint, error) {
	end := r.End
	if end.IsZero() {
		end = time.Now()
	}

	rows, err := q.conn.Query(ctx,
		fmt.Sprintf("SELECT Timestamp, WindowSize, K, M, Estimate FROM %s WHERE Timestamp >= ? AND Timestamp <= ? ORDER BY Timestamp", q.table),
		r.Start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var points []EstimatePoint
	for rows.Next() {
		var p EstimatePoint
		if err := rows.Scan(&p.Timestamp, &p.Window, &p.K, &p.M, &p.Estimate); err != nil {
			return nil, fmt.Errorf("failed to scan estimate row: %w", err)
		}
		points = append(points, p)
	}
	return points, nil
}
