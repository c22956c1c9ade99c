// Команда creategroup создаёт группу модераторов (имя берётся из конфигурации)
// и при необходимости добавляет в неё пользователей по email:
//
//	creategroup -email alice@example.com -email bob@example.com
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/magabrotheeeer/lms-platform/internal/config"
	"github.com/magabrotheeeer/lms-platform/internal/lib/sl"
	"github.com/magabrotheeeer/lms-platform/internal/storage"
)

type emails []string

func (e *emails) String() string { return strings.Join(*e, ",") }

func (e *emails) Set(v string) error {
	*e = append(*e, v)
	return nil
}

func main() {
	var members emails
	flag.Var(&members, "email", "email пользователя, которого нужно добавить в группу (можно повторять)")
	flag.Parse()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, cfg, members, logger); err != nil {
		logger.Error("creategroup failed", sl.Err(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, members []string, logger *slog.Logger) error {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	created, err := db.CreateGroup(ctx, cfg.ModeratorGroup)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("group %q created\n", cfg.ModeratorGroup)
	} else {
		fmt.Printf("group %q already exists\n", cfg.ModeratorGroup)
	}

	for _, email := range members {
		user, err := db.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		if err := db.AddUserToGroup(ctx, user.ID, cfg.ModeratorGroup); err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		logger.Info("user added to group", slog.String("email", email), slog.String("group", cfg.ModeratorGroup))
	}
	return nil
}
