package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"shopsmart/api/config"
)

type ClickHouseClient struct {
	Conn clickhouse.Conn
}

// NewClickHouseDB opens a native-protocol connection and pings it.
func NewClickHouseDB(ctx context.Context, cfg config.ClickHouseConfig) (*ClickHouseClient, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("clickhouse host is not configured")
	}

	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "shopsmart-api", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: time.Second * 5,
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse via Native TCP: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	slog.Info("connected to ClickHouse", "addr", options.Addr[0], "database", cfg.Database)
	return &ClickHouseClient{Conn: conn}, nil
}

func (c *ClickHouseClient) Close() {
	if c.Conn != nil {
		if err := c.Conn.Close(); err != nil {
			slog.Warn("error closing ClickHouse connection", "error", err)
			return
		}
		slog.Info("ClickHouse connection closed")
	}
}
