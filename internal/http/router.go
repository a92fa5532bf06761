package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/roastmycode-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roastmycode-backend/internal/http/middleware"
	"github.com/yungbote/roastmycode-backend/internal/http/response"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	ServiceName    string
	Production     bool
	AllowedOrigins []string
	Cookie         sessions.CookieOptions
	// RateLimit bounds the upstream-bound edge endpoints per client per
	// RateWindow. Zero disables it.
	RateLimit  uint
	RateWindow time.Duration
	// TrustedProxies may set X-Forwarded-For; nil trusts none, so the rate
	// limit keys on the connection's peer address.
	TrustedProxies []string
	// MaxBodyBytes caps request bodies; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	RoastHandler    *httpH.RoastHandler
	SessionHandler  *httpH.SessionHandler
	ProgressHandler *httpH.ProgressHandler
	ShareHandler    *httpH.ShareHandler
	HealthHandler   *httpH.HealthHandler
}

// DefaultMaxBodyBytes fits a base64 screenshot with room to spare.
const DefaultMaxBodyBytes = 8 << 20

func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "roastmycode"
	}

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		if cfg.Log != nil {
			cfg.Log.Warn("invalid trusted proxies, trusting none", "error", err)
		}
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.SecureHeaders(cfg.Production))
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(sessions.Middleware(cfg.Cookie)...)
	r.Use(httpMW.AttachClient())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	// Edge functions
	if cfg.RoastHandler != nil {
		edge := r.Group("/")
		edge.Use(httpMW.BodyLimit(maxBody, response.RespondEdgeTooLarge))
		edge.Use(httpMW.RateLimit(cfg.RateLimit, cfg.RateWindow))
		edge.POST("/roast-code", cfg.RoastHandler.RoastCode)
		edge.POST("/analyze-image", cfg.RoastHandler.AnalyzeImage)
	}

	api := r.Group("/api")
	api.Use(httpMW.BodyLimit(maxBody, response.RespondAPITooLarge))
	{
		// Session workflow
		if cfg.SessionHandler != nil {
			api.GET("/session", cfg.SessionHandler.Get)
			api.POST("/session/start", cfg.SessionHandler.Start)
			api.POST("/session/splash/dismiss", cfg.SessionHandler.DismissSplash)
			api.POST("/session/get-started", cfg.SessionHandler.GetStarted)
			api.POST("/session/quiz", cfg.SessionHandler.StartQuiz)
			api.POST("/session/answers", cfg.SessionHandler.SubmitAnswers)
			api.POST("/session/back", cfg.SessionHandler.Back)
			api.POST("/session/retry", cfg.SessionHandler.Retry)
			api.POST("/session/home", cfg.SessionHandler.Home)
			api.POST("/session/challenge", cfg.SessionHandler.StartChallenge)

			submit := api.Group("/session")
			submit.Use(httpMW.RateLimit(cfg.RateLimit, cfg.RateWindow))
			submit.POST("/submit", cfg.SessionHandler.Submit)
		}

		// Progress
		if cfg.ProgressHandler != nil {
			api.GET("/history", cfg.ProgressHandler.ListHistory)
			api.DELETE("/history", cfg.ProgressHandler.ClearHistory)
			api.GET("/history/:id", cfg.ProgressHandler.GetHistory)
			api.DELETE("/history/:id", cfg.ProgressHandler.DeleteHistory)
			api.GET("/challenge/today", cfg.ProgressHandler.TodaysChallenge)
			api.POST("/challenge/complete", cfg.ProgressHandler.CompleteChallenge)
			api.GET("/streak", cfg.ProgressHandler.Streak)
			api.GET("/languages", cfg.ProgressHandler.Languages)
		}

		// Share
		if cfg.ShareHandler != nil {
			api.POST("/share", cfg.ShareHandler.Share)
			api.GET("/share/:historyId/card.png", cfg.ShareHandler.Card)
		}
	}

	return r
}
