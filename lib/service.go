// Package lib holds the notification dispatch core: resolving which tokens
// belong to which account, fanning a logical send out across tokens, and
// pairing every successful delivery with a history record.
package lib

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/models"
	"github.com/fiffu/pushrelay/senders"
)

// TokenStore is the device-token side of the remote store. FindAccountForToken
// sits behind this interface precisely so its scan-on-every-send lookup can be
// swapped for a maintained index without touching the dispatcher.
type TokenStore interface {
	SaveToken(ctx context.Context, accountID, token, deviceInfo string) error
	DeleteToken(ctx context.Context, accountID, token string) error
	ListTokensForAccount(ctx context.Context, accountID string) ([]string, error)
	ListAllTokens(ctx context.Context) (map[string][]string, error)
	FindAccountForToken(ctx context.Context, token string) (string, error)
}

// HistoryStore is the notification-history side of the remote store.
type HistoryStore interface {
	SaveNotification(ctx context.Context, accountID, title, body, targetActivity string, extraData map[string]string) (*models.Notification, error)
	ListNotifications(ctx context.Context, accountID string) ([]models.Notification, error)
}

type Service struct {
	cfg     *config.Config
	log     *zap.Logger
	tokens  TokenStore
	history HistoryStore

	*sendToDevice
	*fanOut
}

func NewService(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, tokens TokenStore, history HistoryStore, senders senders.Registry) *Service {
	send := &sendToDevice{cfg, log, tokens, history, senders}
	return &Service{
		cfg, log, tokens, history,
		send,
		&fanOut{cfg, log, tokens, send},
	}
}

func (svc *Service) RegisterDeviceToken(ctx context.Context, accountID, token, deviceInfo string) error {
	return svc.tokens.SaveToken(ctx, accountID, token, deviceInfo)
}

func (svc *Service) RemoveDeviceToken(ctx context.Context, accountID, token string) error {
	return svc.tokens.DeleteToken(ctx, accountID, token)
}

func (svc *Service) Notifications(ctx context.Context, accountID string) ([]models.Notification, error) {
	return svc.history.ListNotifications(ctx, accountID)
}
