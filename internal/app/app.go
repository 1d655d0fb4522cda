package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/mugclub/internal/auth"
	"github.com/hitoshi/mugclub/internal/authy"
	"github.com/hitoshi/mugclub/internal/catalog"
	"github.com/hitoshi/mugclub/internal/config"
	"github.com/hitoshi/mugclub/internal/database"
	"github.com/hitoshi/mugclub/internal/drink"
	"github.com/hitoshi/mugclub/internal/handler"
	"github.com/hitoshi/mugclub/internal/logger"
	"github.com/hitoshi/mugclub/internal/metrics"
	"github.com/hitoshi/mugclub/internal/middleware"
	"github.com/hitoshi/mugclub/internal/repository"
	"github.com/hitoshi/mugclub/internal/security"
	"github.com/hitoshi/mugclub/internal/worker/cleanup"
)

const (
	pingTimeout     = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Init はアプリケーションの初期化を行う。
// .envと環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// .envは任意。存在しなければ環境変数のみを使う
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.SetupDefault(w, slog.LevelInfo)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		_ = godotenv.Load()
		return runHealthcheck(healthcheckURL(os.Getenv("LISTEN_IP"), os.Getenv("PORT")))
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("addr", cfg.ListenAddr()),
		slog.String("log_level", cfg.LogLevel),
	)

	switch cmd {
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)
	return db, nil
}

// newMetricsRegistry はアプリケーションとランタイムのメトリクスを登録したレジストリを返す。
func newMetricsRegistry() (*prometheus.Registry, *metrics.Collector) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, metrics.NewCollector(reg)
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. DB接続
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	exec := database.NewExecutor(db)

	// 2. メトリクス
	reg, collector := newMetricsRegistry()

	// 3. リポジトリの初期化
	personRepo := repository.NewPostgresPersonRepo(exec)
	identRepo := repository.NewPostgresIdentityRepo(exec)
	sessionRepo := repository.NewPostgresSessionRepo(exec)
	breweryRepo := repository.NewPostgresBreweryRepo(exec)
	beerRepo := repository.NewPostgresBeerRepo(exec)
	drinkRepo := repository.NewPostgresDrinkRepo(exec)

	// 4. ドメインサービスの初期化
	authyClient := authy.NewClient(
		&http.Client{Timeout: cfg.ProviderTimeout},
		slog.Default(),
		cfg.AuthyAPIURL,
		cfg.AuthyAPIKey,
	)
	authService := auth.NewService(
		authyClient, personRepo, identRepo, sessionRepo, collector,
		auth.ServiceConfig{SessionMaxAge: cfg.SessionMaxAge},
	)
	catalogService := catalog.NewService(breweryRepo, beerRepo)
	drinkService := drink.NewService(catalogService, drinkRepo, security.NewCommentSanitizer(), collector)

	// 5. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitVerification),
	)
	defer rateLimiter.Stop()

	router := handler.NewRouter(&handler.RouterDeps{
		Logger:             slog.Default(),
		PersonResolver:     authService,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        rateLimiter,
		Metrics:            collector,
		MetricsHandler:     metrics.Handler(reg),

		AuthService:   authService,
		DrinkService:  drinkService,
		SearchService: catalogService,
	})

	// 6. HTTPサーバーの起動
	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + cfg.ProviderTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server listen error: %w", err)
	case <-stop:
	}
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// DB接続を開き、期限切れセッションのクリーンアップを定期実行する。
// ヘルスチェックとメトリクス取得のため/wakeupと/metricsのみを公開する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reg, collector := newMetricsRegistry()
	cleanupJob := cleanup.NewCleanupJob(database.NewExecutor(db), slog.Default(), collector)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	r := chi.NewRouter()
	r.Get("/wakeup", handler.Wakeup)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(reg))
	server := &http.Server{
		Addr:        cfg.ListenAddr(),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker metrics server error", slog.String("error", err.Error()))
		}
	}()

	slog.Info("worker starting",
		slog.String("addr", server.Addr),
		slog.Duration("cleanup_interval", cfg.SessionCleanupInterval),
	)

	// ctxがキャンセルされるまでブロックする
	cleanupJob.Start(ctx, cfg.SessionCleanupInterval)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("worker server shutdown failed: %w", err)
	}

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	version, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.Uint64("version", uint64(version)),
	)
	return nil
}

// healthcheckURL はヘルスチェック先の/wakeup URLを組み立てる。
// ワイルドカードアドレスで待ち受けている場合はループバックに接続する。
func healthcheckURL(listenIP, port string) string {
	if port == "" {
		port = "1234"
	}
	ip := net.ParseIP(listenIP)
	switch {
	case ip == nil:
		listenIP = "127.0.0.1"
	case ip.IsUnspecified() && ip.To4() == nil:
		listenIP = "::1"
	case ip.IsUnspecified():
		listenIP = "127.0.0.1"
	}
	return (&url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(listenIP, port),
		Path:   "/wakeup",
	}).String()
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /wakeup エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(target string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(target)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLのパスワードをマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	return u.Redacted()
}
