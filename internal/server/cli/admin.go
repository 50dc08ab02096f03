package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-showcase/internal/server/repository"
	"github.com/IvanChernomyrdin/go-showcase/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-showcase/internal/shared/errors"
)

// NewAdminCmd создаёт группу команд для администраторов.
func NewAdminCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Управление администраторами",
	}
	cmd.AddCommand(newAdminCreateCmd(app))
	return cmd
}

// newAdminCreateCmd создаёт админа в обход правила "первый зарегистрированный".
// Схема БД должна быть уже создана (showcase migrate up).
//
// Пример использования:
//
//	showcase admin create --name Boss --email boss@example.com
//	echo "StrongPass123" | showcase admin create --name Boss --email boss@example.com --password-stdin
func newAdminCreateCmd(app *App) *cobra.Command {
	var name, email string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Создать администратора",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}

			password, err := ReadPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			db, err := OpenDB(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			svc, err := service.NewServices(service.Repositories{
				Users: repository.NewUsersRepository(db),
			}, nil, cfg)
			if err != nil {
				return err
			}

			u, err := svc.Auth.CreateAdmin(cmd.Context(), name, email, password)
			switch {
			case errors.Is(err, serr.ErrAlreadyExists):
				return fmt.Errorf("user with email %s already exists", email)
			case errors.Is(err, serr.ErrInvalidInput):
				return fmt.Errorf("invalid admin data: name, email and a password of at least %d characters are required", service.MinPasswordLen)
			case err != nil:
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin created: id=%s email=%s\n", u.ID, u.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
