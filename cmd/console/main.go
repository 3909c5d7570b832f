// Command console registers and logs in shop accounts from a terminal.
//
//	console register customer|manager
//	console login customer|manager
//	console show <id>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hongminglow/coffee-shop/internal/app"
	"github.com/hongminglow/coffee-shop/internal/auth"
	"github.com/hongminglow/coffee-shop/internal/config"
	"github.com/hongminglow/coffee-shop/internal/console"
	"github.com/hongminglow/coffee-shop/internal/logger"
	"github.com/hongminglow/coffee-shop/internal/models"
	"github.com/hongminglow/coffee-shop/internal/storage"
)

func main() {
	_ = godotenv.Load()
	logger.InitWithWriter(os.Stderr)

	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: console register|login customer|manager, or console show <id>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, closeStore, err := app.OpenStore(ctx, cfg, logger.Logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if args[0] == "show" {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[1])
		}
		u, err := store.FindByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return errors.New("user does not exist")
		}
		if err != nil {
			return err
		}
		fmt.Println(u.Summary())
		return nil
	}

	role, err := models.ParseRole(args[1])
	if err != nil {
		return err
	}
	svc := auth.NewService(store, logger.Logger)
	prompter := console.NewPrompter(os.Stdin, os.Stdout)

	switch args[0] {
	case "register":
		id, err := svc.Register(ctx, role, prompter)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Printf("Registration successful! Your user ID is %d\n", id)
	case "login":
		id, err := svc.Login(ctx, role, prompter)
		if err != nil {
			return loginMessage(err)
		}
		u, err := store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Welcome back, %s. Current balance: %.2f\n", u.Name, u.Balance)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
	return nil
}

func loginMessage(err error) error {
	switch auth.KindOf(err) {
	case auth.KindNotFound:
		return errors.New("user does not exist")
	case auth.KindWrongPassword:
		return errors.New("wrong password")
	case auth.KindRoleMismatch:
		return errors.New("permission error: account role does not match")
	default:
		return err
	}
}
