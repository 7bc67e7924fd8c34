package app

import (
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewTransport provides the RoundTripper used for every outbound call. Tests
// swap it for a stub; production uses the pooled default transport.
func NewTransport(lc fx.Lifecycle, log *zap.Logger) http.RoundTripper {
	return http.DefaultTransport
}
