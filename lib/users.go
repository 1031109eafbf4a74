package lib

import (
	"context"

	"github.com/fiffu/stockwatch/lib/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type users struct {
	log *zap.Logger
	db  *gorm.DB
}

func (svc *users) CreateUser(ctx context.Context, webhookURL string) (*models.User, error) {
	target, err := parseTarget(webhookURL)
	if err != nil {
		return nil, err
	}

	user := &models.User{WebhookURL: target}
	tx := svc.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Create(user)
	if err := tx.Error; err != nil {
		return nil, err
	}
	svc.log.Sugar().Infow("Created user", "user_id", user.ID)
	return user, nil
}

func (svc *users) SetWebhook(ctx context.Context, userID uint, webhookURL string) (*models.User, error) {
	target, err := parseTarget(webhookURL)
	if err != nil {
		return nil, err
	}

	user, err := svc.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tx := svc.db.WithContext(ctx).Model(user).Update("webhook_url", target)
	if err := tx.Error; err != nil {
		return nil, err
	}
	user.WebhookURL = target
	return user, nil
}

func (svc *users) FindUser(ctx context.Context, userID uint) (*models.User, error) {
	user := &models.User{}
	if err := svc.db.WithContext(ctx).First(user, userID).Error; err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}
