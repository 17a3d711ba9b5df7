package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/InQaaaaGit/icd_search/internal/app"
	"github.com/InQaaaaGit/icd_search/internal/buildinfo"
	"github.com/InQaaaaGit/icd_search/internal/config"
	"github.com/InQaaaaGit/icd_search/internal/server"
	"go.uber.org/zap"
)

// Заполняются при сборке:
// go build -ldflags "-X main.buildVersion=v1.0.0 -X 'main.buildDate=$(date)' -X main.buildCommit=$(git rev-parse HEAD)"
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	// Инициализация логгера
	logger, cleanup := server.InitLogger()
	defer cleanup()

	build := buildinfo.NewInfo(buildVersion, buildDate, buildCommit)
	build.Print(os.Stdout)

	// Инициализация конфигурации, без учётных данных сервер не стартует
	cfg := server.InitConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, build, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped")
}

// run создает приложение и обслуживает запросы до отмены ctx
func run(ctx context.Context, cfg *config.Config, build *buildinfo.Info, logger *zap.Logger) error {
	application, err := app.NewApp(cfg, build, logger)
	if err != nil {
		return err
	}

	logger.Info("ICD search proxy starting", build.Fields()...)
	return server.NewHTTPServer(application.GetServer(), cfg, logger).Run(ctx)
}
