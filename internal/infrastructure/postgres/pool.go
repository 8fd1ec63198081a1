package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/kaspi-panel-api/pkg/config"
)

const (
	defaultMaxConns = 25
	applicationName = "kaspi-panel-api"
)

var errNoIPv4 = errors.New("sin dirección IPv4")

// lookupFunc resuelve registros A de un host.
type lookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// ipv4Resolver prueba cada lookup en orden hasta obtener una IPv4.
// En contenedores sin IPv6 el DNS interno puede devolver solo AAAA (Supabase).
type ipv4Resolver struct {
	lookups []lookupFunc
	dialer  net.Dialer
}

func newIPv4Resolver() *ipv4Resolver {
	public := &net.Resolver{
		PreferGo: true,
		Dial: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "udp", "8.8.8.8:53")
		},
	}
	return &ipv4Resolver{lookups: []lookupFunc{
		func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip4", host)
		},
		func(ctx context.Context, host string) ([]net.IP, error) {
			return public.LookupIP(ctx, "ip4", host)
		},
	}}
}

func (r *ipv4Resolver) resolve(ctx context.Context, host string) (string, error) {
	if ip := net.ParseIP(host); ip != nil {
		if ip.To4() == nil {
			return "", errNoIPv4
		}
		return host, nil
	}
	lastErr := errNoIPv4
	for _, lookup := range r.lookups {
		ips, err := lookup(ctx, host)
		if err != nil {
			lastErr = err
			continue
		}
		for _, ip := range ips {
			if v4 := ip.To4(); v4 != nil {
				return v4.String(), nil
			}
		}
	}
	return "", fmt.Errorf("resolver %s: %w", host, lastErr)
}

// dial conecta por tcp4 cuando hay IPv4; si no, deja que el sistema elija.
func (r *ipv4Resolver) dial(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	ip, err := r.resolve(ctx, host)
	if err != nil {
		return r.dialer.DialContext(ctx, network, addr)
	}
	return r.dialer.DialContext(ctx, "tcp4", net.JoinHostPort(ip, port))
}

// rewriteURL reemplaza el host del DSN URL por su IPv4; sin IPv4 lo deja igual.
func (r *ipv4Resolver) rewriteURL(ctx context.Context, dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Hostname() == "" {
		return dsn
	}
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	ip, err := r.resolve(ctx, u.Hostname())
	if err != nil {
		return dsn
	}
	u.Host = net.JoinHostPort(ip, port)
	return u.String()
}

// buildPoolConfig arma la configuración del pool sin conectar.
func buildPoolConfig(ctx context.Context, cfg config.DBConfig, r *ipv4Resolver) (*pgxpool.Config, error) {
	if cfg.DatabaseURL == "" {
		if ip, err := r.resolve(ctx, cfg.Host); err == nil {
			cfg.Host = ip
		}
	}
	dsn := r.rewriteURL(ctx, cfg.ConnectionString())

	pc, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	pc.ConnConfig.DialFunc = r.dial
	pc.ConnConfig.RuntimeParams["application_name"] = applicationName

	pc.MaxConns = defaultMaxConns
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 && int32(cfg.MinConns) <= pc.MaxConns {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	// NUMERIC (precios, ganancias, montos) -> shopspring/decimal.
	pc.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}
	return pc, nil
}

// NewPool crea el pool PostgreSQL y verifica la conexión con un ping.
// Usa DATABASE_URL si está definido; si no, el DSN de DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	pc, err := buildPoolConfig(ctx, cfg, newIPv4Resolver())
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	log.Info().
		Str("host", pc.ConnConfig.Host).
		Str("database", pc.ConnConfig.Database).
		Int32("max_conns", pc.MaxConns).
		Msg("pool PostgreSQL listo")
	return pool, nil
}
