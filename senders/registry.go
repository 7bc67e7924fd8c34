package senders

import (
	"context"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/credentials"
)

// PlatformFCM keys the Firebase Cloud Messaging sender in the registry.
const PlatformFCM = "fcm"

// Sender delivers one message to one device token and returns the provider's
// raw response body.
type Sender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) (string, error)
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper, creds credentials.Source) Registry {
	base := base{log, cfg, transport}
	return Registry{
		PlatformFCM: &fcmSender{base, creds},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
