package healthcheck

import (
	"context"
	"time"

	"recruit-cv/config"
	"recruit-cv/internal/database"
	"recruit-cv/pkg/apperror"
	s3client "recruit-cv/pkg/s3"

	"github.com/gofiber/fiber/v3"
)

func ApiHealthCheck(c fiber.Ctx) error {
	return c.SendString("ok")
}

func DatabaseHealthCheck(c fiber.Ctx) error {
	db, err := database.GetDB()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperror.InternalError(config.ModuleDatabase, c, err)
	}
	return c.SendString("ok")
}

func S3HealthCheck(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cli, err := s3client.New(ctx)
	if err != nil {
		return apperror.InternalError(config.ModuleS3, c, err)
	}
	if err := cli.Healthy(ctx); err != nil {
		return apperror.InternalError(config.ModuleS3, c, err)
	}
	return c.SendString("ok")
}
