package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"grok-vision-bot/api/internal/config"
	"grok-vision-bot/api/internal/httpserver"
	"grok-vision-bot/api/internal/openrouter"
	"grok-vision-bot/api/internal/store"
	"grok-vision-bot/api/internal/telegram"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	sessions, db, err := buildSessionStore(cfg, logger)
	if err != nil {
		logger.Fatal("session store", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
	}

	// --- Telegram bot ---
	// Polling holds the connection for the whole long-poll window, so
	// its client timeout must sit above u.Timeout. Webhook mode only
	// makes short control calls.
	clientTimeout := 20 * time.Second
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		clientTimeout = 50 * time.Second
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.TelegramBotToken, tgbotapi.APIEndpoint,
		&http.Client{Timeout: clientTimeout})
	if err != nil {
		logger.Fatal("telegram auth", zap.Error(err))
	}
	bot.Debug = false
	logger.Info("authorized on telegram", zap.String("username", bot.Self.UserName))

	r := &telegram.Router{
		Bot:      bot,
		Token:    cfg.TelegramBotToken,
		LLM:      openrouter.New(cfg.OpenRouterModel, cfg.OpenRouterReferrer, cfg.OpenRouterTitle),
		Sessions: sessions,
		Log:      logger,
	}

	addr := "0.0.0.0:" + cfg.Port

	// --- Choose mode: Webhook vs Polling ---
	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		startWebhookMode(addr, bot, r, webhookURL, db, logger)
	} else {
		startPollingMode(addr, r, bot, db, logger)
	}
}

// ---------------- Session backends -----------------

func buildSessionStore(cfg *config.Config, logger *zap.Logger) (store.SessionStore, *sql.DB, error) {
	switch cfg.SessionBackend {
	case "memory", "":
		logger.Info("sessions in memory, keys are lost on restart")
		return store.NewMemoryStore(), nil, nil

	case "postgres":
		dsn := resolveDSN()
		if dsn == "" {
			return nil, nil, fmt.Errorf("database DSN is empty: set DATABASE_URL or POSTGRES_* env vars")
		}

		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("sql.Open: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("db.Ping: %w", err)
		}
		logger.Info("db connected", zap.String("dsn", safeDSNSummary(dsn)))

		if err := runMigrations(db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return store.NewPostgresStore(db), db, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		return store.NewRedisStore(client), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown SESSION_BACKEND %q (want memory, postgres or redis)", cfg.SessionBackend)
	}
}

func runMigrations(db *sql.DB) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("migration instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// ---------------- Modes -----------------

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string, db *sql.DB, logger *zap.Logger) {
	// secret webhook path
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		logger.Fatal("webhook config", zap.Error(err))
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		logger.Fatal("webhook register", zap.Error(err))
	}

	mux := httpserver.NewMux(db)
	mux.HandleFunc(path, httpserver.Webhook(logger, r.HandleUpdate))

	logger.Info("webhook listening", zap.String("addr", addr), zap.String("path", path))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}

func startPollingMode(addr string, r *telegram.Router, bot *tgbotapi.BotAPI, db *sql.DB, logger *zap.Logger) {
	// Polling does not need the HTTP server, but the status routes keep
	// container platforms' health checks happy.
	go func() {
		logger.Info("health server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, httpserver.NewMux(db)); err != nil {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runPolling(ctx, bot, logger, r.HandleUpdate)
}

// ---------------- Polling loop -----------------

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") { // HTTP 429 from Telegram
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return 2 * time.Second
		}
	}
	return 1 * time.Second
}

// updatesFetcher is the slice of *tgbotapi.BotAPI the polling loop needs.
type updatesFetcher interface {
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// runPolling fetches updates sequentially: one update is fully handled,
// downstream call included, before the next batch is requested.
func runPolling(ctx context.Context, bot updatesFetcher, logger *zap.Logger, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info("polling stopped")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30 // long polling timeout (sec)

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			logger.Warn("polling error", zap.Error(err), zap.Duration("retry_in", d))
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

// ---------------- Helpers -----------------

func resolveDSN() string {
	// Prefer DATABASE_URL if provided
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	// Build DSN from POSTGRES_* / PG* env vars (single-container default)
	user := getenvDefault("POSTGRES_USER", "grokbot")
	pass := os.Getenv("POSTGRES_PASSWORD")
	host := getenvDefault("PGHOST", "db")
	port := getenvDefault("PGPORT", "5432")
	db := getenvDefault("POSTGRES_DB", "grokbot")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func getenvDefault(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func shortHash(s string) string {
	// light hash for the webhook path (not crypto, stable per token)
	h := uint64(1469598103934665603)
	const prime = 1099511628211
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	// 16-char hex
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		out[i] = hexdigits[h&0xF]
		h >>= 4
	}
	return string(out)
}

func safeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	user := u.User.Username()
	host := u.Host
	port := ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, user)
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, user)
}
