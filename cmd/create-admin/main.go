package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rafabene/avantpro-social/internal/infrastructure/clock"
	"github.com/rafabene/avantpro-social/internal/infrastructure/config"
	"github.com/rafabene/avantpro-social/internal/infrastructure/logging"
	"github.com/rafabene/avantpro-social/internal/infrastructure/persistence/postgres"
	"github.com/rafabene/avantpro-social/internal/infrastructure/security"
	"github.com/rafabene/avantpro-social/internal/services"
)

var (
	username string
	email    string
	password string
)

var rootCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Cria (ou promove) a conta de administrador",
	Long: `create-admin garante que exista um administrador com o username informado.
Se a conta já existir ela é promovida a admin; a senha não é alterada.

A senha pode vir da flag --password ou da variável ADMIN_PASSWORD.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&username, "username", "admin", "Username do administrador")
	rootCmd.Flags().StringVar(&email, "email", "admin@example.com", "E-mail do administrador")
	rootCmd.Flags().StringVar(&password, "password", "", "Senha (padrão: $ADMIN_PASSWORD)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("password is required (--password or ADMIN_PASSWORD)")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewSlogLogger(cfg.Logging.Level)

	db, err := postgres.NewDatabaseConnection(&cfg.Database, logger)
	if err != nil {
		return err
	}

	userService := services.NewUserService(services.UserServiceDeps{
		Users:   postgres.NewUserRepository(db),
		Posts:   postgres.NewPostRepository(db),
		Follows: postgres.NewFollowRepository(db),
		UoW:     postgres.NewUnitOfWork(db),
		Hasher:  security.NewBcryptHasher(0),
		Clock:   clock.System{},
		Logger:  logger,
	})

	user, created, err := userService.EnsureAdmin(cmd.Context(), username, email, password)
	if err != nil {
		return fmt.Errorf("failed to ensure admin: %w", err)
	}

	out := cmd.OutOrStdout()
	if created {
		fmt.Fprintf(out, "admin %q created (id=%d)\n", user.Username, user.ID)
	} else {
		fmt.Fprintf(out, "admin %q already exists (id=%d)\n", user.Username, user.ID)
	}
	return nil
}
