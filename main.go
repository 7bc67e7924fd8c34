package main

import (
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fiffu/pushrelay/app"
	"github.com/fiffu/pushrelay/config"
	"github.com/fiffu/pushrelay/lib"
	"github.com/fiffu/pushrelay/lib/credentials"
	"github.com/fiffu/pushrelay/lib/rtdb"
	"github.com/fiffu/pushrelay/senders"
)

func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENVIRONMENT") {
	default:
		return zap.NewDevelopment()

	case "production":
		logCfg := zap.NewProductionConfig()
		logCfg.EncoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			t = t.UTC()
			zapcore.ISO8601TimeEncoder(t, enc)
		}
		return logCfg.Build()
	}
}

func main() {
	fx.New(
		fx.Provide(NewLogger),
		fx.Provide(config.NewConfig),

		fx.Provide(app.NewTransport),
		fx.Provide(fx.Annotate(credentials.NewServiceAccount, fx.As(new(credentials.Source)))),
		fx.Provide(senders.NewSenderRegistry),

		fx.Provide(rtdb.NewClient),
		fx.Provide(fx.Annotate(rtdb.NewTokenStore, fx.As(new(lib.TokenStore)))),
		fx.Provide(fx.Annotate(rtdb.NewHistoryStore, fx.As(new(lib.HistoryStore)))),

		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server) {}),
	).Run()
}
