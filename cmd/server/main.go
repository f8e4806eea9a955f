package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"asceta/portal/internal/auth"
	"asceta/portal/internal/config"
	"asceta/portal/internal/crypto"
	"asceta/portal/internal/db"
	internalhttp "asceta/portal/internal/http"
	"asceta/portal/internal/identity"
	"asceta/portal/internal/jobs"
	"asceta/portal/internal/repository"
	"asceta/portal/internal/telemetry"
)

const serviceName = "asceta-portal"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("env file error: %v", err)
	}
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.GeneratedSecret {
		log.Printf("warning: JWT_SECRET not set, using a random per-process secret; tokens will not survive a restart")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry := telemetry.Setup(ctx, serviceName, cfg)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db config error: %v", err)
	}
	defer pool.Close()
	migrate := func(ctx context.Context) error { return db.Migrate(ctx, pool) }
	if err := db.Ping(ctx, pool, cfg.DBPingTimeout); err != nil {
		log.Printf("database unreachable, starting degraded: %v", err)
		jobs.StartSchemaRetry(ctx, cfg.SchemaRetryInterval, cfg.DBPingTimeout, migrate)
	} else if err := migrate(ctx); err != nil {
		log.Printf("schema migration failed: %v", err)
		jobs.StartSchemaRetry(ctx, cfg.SchemaRetryInterval, cfg.DBPingTimeout, migrate)
	}

	denylist := newDenylist(ctx, cfg)

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}
	store := repository.NewStore(pool)
	accounts := identity.NewService(store, codec, crypto.NewHasher(cfg.BcryptCost), denylist)
	server := internalhttp.NewServer(cfg, store, accounts)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(server.Router(), serviceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("%s listening on %s env=%s", serviceName, cfg.HTTPAddr, cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

// newDenylist prefers Redis and falls back to the in-process list when Redis
// is not configured or does not answer.
func newDenylist(ctx context.Context, cfg config.Config) auth.Denylist {
	if cfg.RedisAddr == "" {
		return auth.NewMemoryDenylist()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("redis unreachable, using in-process token denylist: %v", err)
		_ = client.Close()
		return auth.NewMemoryDenylist()
	}
	return auth.NewRedisDenylist(client)
}
