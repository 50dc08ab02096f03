package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/config"
	h "github.com/IvanChernomyrdin/go-showcase/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/repository"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/session"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/storage"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/web"
	"github.com/IvanChernomyrdin/go-showcase/internal/shared/logger"
)

// NewServeCmd создаёт команду запуска HTTP-сервера.
//
// Пример использования:
//
//	showcase serve --config ./configs/server.yaml
func NewServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP-сервер",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}
}

// runServe поднимает сервер и ждёт сигнала завершения.
//
// Порядок:
//   - конфиг, логгер, база, миграции;
//   - хранилище сессий (db|redis) и картинок;
//   - сервисы, хендлеры, роутер;
//   - http.Server и graceful shutdown по SIGINT/SIGTERM/SIGQUIT.
func runServe(cmd *cobra.Command, app *App) error {
	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// подключаем базу данных
	db, err := OpenDB(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected")

	if cfg.Migrations.Enabled {
		if err := RunMigrations(db); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	store, sweeper, closeStore, err := newSessionStore(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer closeStore()

	files, err := storage.NewLocalStore(storage.Options{
		Dir:          cfg.Uploads.Dir,
		URLPrefix:    cfg.Uploads.URLPrefix,
		MaxBytes:     cfg.Uploads.MaxBytes,
		AllowedTypes: cfg.Uploads.AllowedTypes,
	})
	if err != nil {
		return err
	}

	// создаём репы
	repos := service.Repositories{
		Users:    repository.NewUsersRepository(db),
		Quotes:   repository.NewQuotesRepository(db),
		Projects: repository.NewProjectsRepository(db),
		Health:   repository.NewHealthRepository(db),
	}
	svc, err := service.NewServices(repos, files, cfg)
	if err != nil {
		return err
	}

	views, err := web.NewRenderer()
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, session.Options{
		CookieName: cfg.Session.CookieName,
		Secret:     cfg.Session.Secret,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	})

	handler := web.NewHandler(svc, log, sessions, views, web.Uploads{
		Dir:       files.Dir(),
		URLPrefix: files.URLPrefix(),
		MaxBytes:  cfg.Uploads.MaxBytes,
	})
	router := h.NewRouter(handler)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           http.MaxBytesHandler(router, cfg.Server.MaxBodyBytes),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", zap.String("addr", server.Addr), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if sweeper != nil {
		g.Go(func() error {
			SweepSessions(ctx, sweeper, cfg.Session.CleanupInterval, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

// SessionSweeper удаляет протухшие сессии.
type SessionSweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// newSessionStore выбирает хранилище сессий по session.store.
// Для db дополнительно возвращается sweeper: у Redis свой TTL.
func newSessionStore(ctx context.Context, cfg *config.Config, db *sql.DB) (session.Store, SessionSweeper, func(), error) {
	switch cfg.Session.Store {
	case "redis":
		rs, err := NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, nil, err
		}
		return rs, nil, func() { _ = rs.Close() }, nil
	default:
		repo := repository.NewSessionsRepository(db)
		return repo, repo, func() {}, nil
	}
}

// SweepSessions раз в every удаляет протухшие сессии, пока жив ctx.
func SweepSessions(ctx context.Context, s SessionSweeper, every time.Duration, log *logger.Logger) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.DeleteExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					log.Warn("session sweep failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				log.Debug("expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
