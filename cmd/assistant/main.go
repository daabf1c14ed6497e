package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/draftbetter/assistant/internal/config"
	"github.com/draftbetter/assistant/internal/datadragon"
	"github.com/draftbetter/assistant/internal/feed"
	"github.com/draftbetter/assistant/internal/history"
	"github.com/draftbetter/assistant/internal/httpapi"
	"github.com/draftbetter/assistant/internal/supervisor"
)

// feedAdapter narrows *feed.Client to the supervisor's Feed interface.
type feedAdapter struct {
	client *feed.Client
}

func (a feedAdapter) Connect(ctx context.Context) (supervisor.Conn, error) {
	return a.client.Connect(ctx)
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := feed.NewClient(cfg.LockfilePath, logger)
	champs := loadCatalog(ctx, cfg.DDragonBaseURL, logger)

	opts := supervisor.Options{RetryEvery: cfg.RetryInterval}

	var rec *history.Recorder
	if cfg.DatabaseURL != "" {
		var err error
		rec, err = history.Open(cfg.DatabaseURL, logger, func(id int) string {
			return champs[id].Name
		})
		if err != nil {
			logger.Fatal("open history store", zap.Error(err))
		}
		opts.OnGameStart = rec.MarkGameStart
		opts.OnGameEnd = rec.MarkGameEnd
	}

	sup := supervisor.New(feedAdapter{client: client}, logger, opts)
	sup.Start(ctx)
	defer sup.Stop()

	if rec != nil {
		events, cancel := sup.Subscribe()
		defer cancel()
		go func() {
			for ev := range events {
				rec.HandleEvent(ev)
			}
		}()
	}

	handler := httpapi.SetupRoutes(httpapi.NewServer(sup, client, champs, logger))
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shut down cleanly")
}

func newLogger(level string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	return logger
}

// loadCatalog fetches the champion catalog once at startup. Failure is
// non-fatal; the assistant still works, champion names just come back empty.
func loadCatalog(ctx context.Context, baseURL string, logger *zap.Logger) map[int]datadragon.Champion {
	dd := datadragon.NewClient(baseURL, logger)

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	version, err := dd.LatestVersion(fetchCtx)
	if err != nil {
		logger.Warn("champion catalog unavailable", zap.Error(err))
		return map[int]datadragon.Champion{}
	}
	champs, err := dd.Champions(fetchCtx, version)
	if err != nil {
		logger.Warn("champion catalog unavailable", zap.Error(err))
		return map[int]datadragon.Champion{}
	}
	logger.Info("champion catalog loaded",
		zap.String("version", version),
		zap.Int("count", len(champs)))
	return champs
}
