package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Sanket93s/gst-billing-system/pkg/config"
)

// NewPool opens and pings a connection pool with NUMERIC mapped to
// decimal.Decimal on every connection.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if cfg.PreferIPv4 {
		d := &net.Dialer{KeepAlive: 5 * time.Minute}
		poolConfig.ConnConfig.DialFunc = preferIPv4(net.DefaultResolver.LookupIP, d.DialContext)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	poolConfig.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

type lookupFunc func(ctx context.Context, network, host string) ([]net.IP, error)

// preferIPv4 dials the first IPv4 address the system resolver returns for the
// host. Literal addresses and hosts without an A record are dialed as given.
func preferIPv4(lookup lookupFunc, dial pgconn.DialFunc) pgconn.DialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil || net.ParseIP(host) != nil {
			return dial(ctx, network, addr)
		}
		ips, err := lookup(ctx, "ip4", host)
		if err != nil || len(ips) == 0 {
			return dial(ctx, network, addr)
		}
		return dial(ctx, "tcp4", net.JoinHostPort(ips[0].String(), port))
	}
}
