package main

import (
	"net/http"
	"os"
	"time"

	"github.com/fiffu/stockwatch/app"
	"github.com/fiffu/stockwatch/config"
	"github.com/fiffu/stockwatch/lib"
	"github.com/fiffu/stockwatch/lib/checker"
	"github.com/fiffu/stockwatch/lib/monitor"
	"github.com/fiffu/stockwatch/lib/render"
	"github.com/fiffu/stockwatch/senders"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
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
		fx.Provide(config.NewConfig),
		fx.Provide(NewLogger),

		fx.Provide(app.NewTransport),
		fx.Provide(app.NewDatabase),

		fx.Provide(senders.NewSenderRegistry),
		fx.Provide(senders.NewDispatcher),

		fx.Provide(render.NewRenderer),
		fx.Provide(checker.NewDefaultChecker),
		fx.Provide(monitor.NewMonitor),

		fx.Provide(lib.NewService),
		fx.Provide(app.NewAPI),

		fx.Invoke(func(*http.Server, *monitor.Monitor) {}),
	).Run()
}
