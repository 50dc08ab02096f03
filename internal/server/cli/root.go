// Package cli реализует командный интерфейс сервера.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд (serve, migrate, admin, version);
//   - загрузку .env и конфига сервера;
//   - сборку зависимостей и запуск HTTP-сервера.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/config"
	"github.com/IvanChernomyrdin/go-showcase/internal/shared/logger"
)

// App содержит состояние CLI, разделяемое между командами.
type App struct {
	// ConfigPath — путь к server.yaml.
	ConfigPath string
	// EnvFile — путь к .env, отсутствие файла не ошибка.
	EnvFile string
}

// NewRootCmd создаёт root-команду и регистрирует подкоманды.
//
// Без подкоманды root работает как serve.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:   "showcase",
		Short: "Showcase — сайт-витрина с заявками и портфолио",
		Long: `Showcase server.

Команды:
  serve     Запустить HTTP-сервер (по умолчанию)
  migrate   Применить или откатить миграции БД
  admin     Управление администраторами
  version   Версия и дата сборки

Примеры:
  showcase --config ./configs/server.yaml
  showcase migrate up
  showcase admin create --name Boss --email boss@example.com
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.loadEnv()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "./configs/server.yaml", "path to server config")
	cmd.PersistentFlags().StringVar(&app.EnvFile, "env-file", ".env", "path to .env file")

	cmd.AddCommand(NewServeCmd(app))
	cmd.AddCommand(NewMigrateCmd(app))
	cmd.AddCommand(NewAdminCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// loadEnv подхватывает .env. Уже заданные переменные окружения не перетираются.
func (a *App) loadEnv() error {
	if a.EnvFile == "" {
		return nil
	}
	if err := godotenv.Load(a.EnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", a.EnvFile, err)
	}
	return nil
}

// loadConfig читает конфиг сервера.
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", a.ConfigPath, err)
	}
	return cfg, nil
}

// newLogger берёт настройки log из конфига, незаданные размеры ротации по умолчанию.
// Пустой log.file — только консоль.
func newLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = cfg.Log.Level
	opts.File = cfg.Log.File
	if cfg.Log.MaxSizeMB > 0 {
		opts.MaxSizeMB = cfg.Log.MaxSizeMB
	}
	if cfg.Log.MaxBackups > 0 {
		opts.MaxBackups = cfg.Log.MaxBackups
	}
	if cfg.Log.MaxAgeDays > 0 {
		opts.MaxAgeDays = cfg.Log.MaxAgeDays
	}
	return logger.New(opts)
}

// Execute запускает обработку CLI-команд.
//
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
