// Package credentials exchanges a long-lived service-account key for the
// short-lived bearer tokens that the Firebase messaging and database APIs
// expect.
package credentials

import (
	"context"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib/errs"
)

const (
	ScopeMessaging     = "https://www.googleapis.com/auth/firebase.messaging"
	ScopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"
)

// Source yields a bearer token valid for the push-messaging and store APIs.
type Source interface {
	AccessToken(ctx context.Context) (string, error)
}

type ServiceAccount struct {
	log    *zap.Logger
	tokens oauth2.TokenSource
}

// NewServiceAccount loads the key file once at startup; token exchange happens
// lazily on the first AccessToken call. The underlying TokenSource reuses
// unexpired tokens between calls.
func NewServiceAccount(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*ServiceAccount, error) {
	data, err := os.ReadFile(cfg.Firebase.CredentialsFile)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuth, err, "failed to read service account key file")
	}

	creds, err := google.CredentialsFromJSON(context.Background(), data, ScopeMessaging, ScopeCloudPlatform)
	if err != nil {
		return nil, errs.Wrap(errs.KindAuth, err, "failed to parse service account credentials")
	}

	log.Sugar().Infof("Loaded service account credentials for project %s", cfg.Firebase.ProjectID)
	return &ServiceAccount{log: log, tokens: creds.TokenSource}, nil
}

func (sa *ServiceAccount) AccessToken(ctx context.Context) (string, error) {
	tok, err := sa.tokens.Token()
	if err != nil {
		return "", errs.Wrap(errs.KindAuth, err, "failed to exchange credential for access token")
	}
	return tok.AccessToken, nil
}
