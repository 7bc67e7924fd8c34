// Package rtdb talks to the Firebase Realtime Database over its REST surface.
// The database is treated as a generic path-addressed JSON document store:
// every document lives at <base>/<path>.json and GET of an absent path returns
// the JSON literal null, which decodes into an empty value rather than an
// error.
package rtdb

import (
	"context"
	"net/http"

	"github.com/carlmjohnson/requests"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fiffu/pushrelay/config"
)

type Client struct {
	log       *zap.Logger
	baseURL   string
	transport http.RoundTripper
	cfg       *config.Config
}

func NewClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, transport http.RoundTripper) *Client {
	return &Client{log, cfg.DatabaseURL(), transport, cfg}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout())
	defer cancel()

	return requests.
		URL(c.baseURL).
		Path(docPath(path)).
		Transport(c.transport).
		ToJSON(out).
		Fetch(ctx)
}

func (c *Client) put(ctx context.Context, path string, val any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout())
	defer cancel()

	return requests.
		URL(c.baseURL).
		Path(docPath(path)).
		Method(http.MethodPut).
		BodyJSON(val).
		Transport(c.transport).
		Fetch(ctx)
}

func (c *Client) delete(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout())
	defer cancel()

	return requests.
		URL(c.baseURL).
		Path(docPath(path)).
		Method(http.MethodDelete).
		Transport(c.transport).
		Fetch(ctx)
}

func docPath(path string) string {
	return "/" + path + ".json"
}
