package main

import (
	"context"
	"log"

	fbauth "firebase.google.com/go/v4/auth"

	"github.com/tripamigo/travel-match-backend/config"
	"github.com/tripamigo/travel-match-backend/internal/auth"
	"github.com/tripamigo/travel-match-backend/internal/bootstrap"
	"github.com/tripamigo/travel-match-backend/internal/featurelog"
	"github.com/tripamigo/travel-match-backend/internal/groupsync"
	"github.com/tripamigo/travel-match-backend/internal/matching/pool"
	"github.com/tripamigo/travel-match-backend/internal/matching/repository"
	"github.com/tripamigo/travel-match-backend/internal/matching/service"
)

const serviceName = "travel-match-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	// Firebase is optional outside production; without it the X-User-Id
	// header carries the external UID.
	var authClient *fbauth.Client
	if cfg.Firebase.CredentialsPath != "" {
		authClient, err = auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
	} else {
		log.Println("Firebase credentials not set, using X-User-Id header auth")
	}

	intentStore := pool.NewRedisStore(rdb)
	interestRepo := repository.NewInterestRepo(db)
	skipRepo := repository.NewSkipRepo(db)
	impressionRepo := repository.NewImpressionRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	events := featurelog.NewClient(cfg.Matching.FeatureLogURL)

	matching := service.NewMatching(service.Config{
		IntentTTL:     cfg.Matching.IntentTTL,
		MaxDistanceKm: cfg.Matching.MaxDistanceKm,
	}, intentStore, interestRepo, skipRepo, impressionRepo, groupRepo, events)

	scheduler := groupsync.NewScheduler(groupRepo)
	scheduler.Start()
	defer scheduler.Stop()

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		DB:             db,
		Redis:          rdb,
		AuthClient:     authClient,
		Matching:       matching,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
