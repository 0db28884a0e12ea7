package main

import (
	"context"
	"fmt"
	"time"

	"recruit-cv/config"
	"recruit-cv/internal/api/cvs"
	"recruit-cv/internal/api/emails"
	"recruit-cv/internal/api/healthcheck"
	"recruit-cv/internal/core/cv"
	"recruit-cv/internal/database"
	"recruit-cv/internal/database/model"
	"recruit-cv/internal/middleware"
	"recruit-cv/pkg/logger"
	s3client "recruit-cv/pkg/s3"

	"github.com/gofiber/fiber/v3"
)

// newStore picks the blob backend: S3/MinIO when a bucket is configured,
// a local directory otherwise.
func newStore() (cv.Store, error) {
	if config.Cfg.S3.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		store, err := s3client.New(ctx)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return cv.NewLocalStore("data/cvs")
}

func main() {
	app := fiber.New(fiber.Config{
		AppName:   config.Cfg.Server.AppName,
		BodyLimit: config.Cfg.Server.BodyLimit,
	})

	middleware.Setup(app, config.Cfg.Server.Concurrency)

	if err := database.Migrate(&model.CV{}, &model.Candidate{}); err != nil {
		logger.Error(err, "database migration error")
	}

	store, err := newStore()
	if err != nil {
		logger.Fatal(err, "storage init error")
	}
	svc := cv.NewService(store, cv.NewDBRecords())

	// routes
	healthcheck.RegisterRoutes(app)
	api := app.Group("/api/v1")
	cvs.RegisterRoutes(api, cvs.NewHandler(svc))
	emails.RegisterRoutes(api, emails.NewHandler(true))

	addr := fmt.Sprintf(":%d", config.Cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Error(err, "server error")
	}
}
