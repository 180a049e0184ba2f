package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/auth"
	"github.com/spec-kit/magazine-service/internal/config"
	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/observability"
	"github.com/spec-kit/magazine-service/internal/persistence"
	"github.com/spec-kit/magazine-service/internal/repository"
)

// Seeds one user per role, a sample magazine and an active subscription.
// Running it twice resets the seeded passwords instead of failing.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.PoolHandle() == nil {
		logger.Fatal("seeding requires POSTGRES_DSN")
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	users := repository.NewUserRepository(pg.PoolHandle())
	magazines := repository.NewMagazineRepository(pg.PoolHandle())
	subscriptions := repository.NewSubscriptionRepository(pg.PoolHandle())

	upsertUser(ctx, users, logger, cfg.Auth.BcryptCost, "admin@example.com", "admin123", "Admin", domain.RoleAdmin)
	publisher := upsertUser(ctx, users, logger, cfg.Auth.BcryptCost, "publisher@example.com", "publisher123", "Publisher", domain.RolePublisher)
	subscriber := upsertUser(ctx, users, logger, cfg.Auth.BcryptCost, "subscriber@example.com", "subscriber123", "Subscriber", domain.RoleSubscriber)

	magazine := &domain.Magazine{
		Title:       "Tech Weekly",
		Description: "Latest tech news",
		PublisherID: publisher.ID,
	}
	if err := magazines.Create(ctx, magazine); err != nil {
		logger.Fatal("failed to create magazine", zap.Error(err))
	}

	sub, err := subscriptions.Upsert(ctx, subscriber.ID, magazine.ID)
	if err != nil {
		logger.Fatal("failed to create subscription", zap.Error(err))
	}
	if _, err := subscriptions.Activate(ctx, sub.ID, time.Now()); err != nil {
		logger.Fatal("failed to activate subscription", zap.Error(err))
	}
	// The repositories expose no end-date setter outside cancellation, so
	// stamp the one-week window directly.
	endDate := time.Now().Add(7 * 24 * time.Hour)
	if _, err := pg.PoolHandle().Exec(ctx, `UPDATE subscriptions SET end_date=$1, updated_at=NOW() WHERE id=$2`, endDate, sub.ID); err != nil {
		logger.Fatal("failed to set subscription end date", zap.Error(err))
	}

	logger.Info("seed completed",
		zap.String("magazine_id", magazine.ID),
		zap.String("subscription_id", sub.ID),
	)
}

func upsertUser(
	ctx context.Context,
	users repository.UserRepository,
	logger *zap.Logger,
	bcryptCost int,
	email, password, name string,
	role domain.Role,
) *domain.User {
	hash, err := auth.HashPassword(password, bcryptCost)
	if err != nil {
		logger.Fatal("failed to hash password", zap.String("email", email), zap.Error(err))
	}

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		existing.PasswordHash = hash
		if err := users.Update(ctx, existing); err != nil {
			logger.Fatal("failed to update seeded user", zap.String("email", email), zap.Error(err))
		}
		logger.Info("seeded user refreshed", zap.String("email", email))
		return existing
	}

	user := &domain.User{Email: email, Name: name, PasswordHash: hash, Role: role}
	if err := users.Create(ctx, user); err != nil {
		logger.Fatal("failed to create seeded user", zap.String("email", email), zap.Error(err))
	}
	logger.Info("seeded user created", zap.String("email", email), zap.String("role", string(role)))
	return user
}
