package bootstrap

import (
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/tripamigo/travel-match-backend/internal/api/http"
	"github.com/tripamigo/travel-match-backend/internal/api/http/middleware"
	"github.com/tripamigo/travel-match-backend/internal/auth"
	matchhttp "github.com/tripamigo/travel-match-backend/internal/matching/http"
	"github.com/tripamigo/travel-match-backend/internal/matching/service"
	"github.com/tripamigo/travel-match-backend/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	DB             *pgxpool.Pool
	Redis          *redis.Client
	AuthClient     *fbauth.Client
	Matching       *service.Matching
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	userRepo := users.NewRepo(dep.DB)
	api.Use(auth.WithUser(dep.AuthClient, userRepo))
	if dep.RateLimitRPS > 0 {
		api.Use(middleware.NewRateLimiter(dep.RateLimitRPS, dep.RateLimitBurst).Middleware())
	}

	matchGroup := api.Group("/matching")
	matchhttp.New(dep.Matching).Register(matchGroup)

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "X-User-Id", "X-Request-Id")
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
