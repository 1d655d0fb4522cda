package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/mugclub/internal/metrics"
	"github.com/hitoshi/mugclub/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger             *slog.Logger
	PersonResolver     middleware.PersonResolver
	CORSAllowedOrigins []string
	RateLimiter        *middleware.RateLimiter
	Metrics            metrics.MetricsCollector
	MetricsHandler     http.Handler

	// サービス
	AuthService   AuthServiceInterface
	DrinkService  DrinkServiceInterface
	SearchService SearchServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Logging → Recovery → Metrics → SecurityHeaders → CORS
//
// 認証が必要なルートには更に Session → RateLimit(General) を適用する。
// 検証コードの送信・照合はクライアントIPごとにレート制限する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigins))

	authHandler := NewAuthHandler(deps.AuthService)
	drinkHandler := NewDrinkHandler(deps.DrinkService)
	searchHandler := NewSearchHandler(deps.SearchService)

	// --- 認証不要のルート ---
	r.Get("/", Index)
	r.Get("/wakeup", Wakeup)

	verificationLimit := deps.RateLimiter.VerificationMiddleware()
	r.With(verificationLimit).Post("/auth", authHandler.Begin)
	r.With(verificationLimit).Post("/auth/verify", authHandler.Verify)

	r.Route("/search", func(r chi.Router) {
		r.Get("/beer", searchHandler.SearchBeers)
		r.Get("/brewery", searchHandler.SearchBreweries)
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.PersonResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/auth/test", authHandler.Test)
		r.Post("/auth/logout", authHandler.Logout)

		r.Route("/drink", func(r chi.Router) {
			r.Get("/", drinkHandler.ListDrinks)
			r.Post("/", drinkHandler.RecordDrink)
			r.Delete("/{id}", drinkHandler.DeleteDrink)
		})
	})

	return r
}
