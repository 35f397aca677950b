package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	appRepos "github.com/tjmun/confreg/internal/app/repositories"
	appServices "github.com/tjmun/confreg/internal/app/services"
	"github.com/tjmun/confreg/internal/bootstrap"
	"github.com/tjmun/confreg/internal/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "setadmin",
		Usage: "grant the ADMIN role to an existing account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "email",
				Aliases:  []string{"e"},
				Usage:    "email address of the account to promote",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML configuration file",
				Value:   bootstrap.DefaultConfigPath,
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("setadmin failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := os.Setenv("CONFIG_PATH", c.String("config")); err != nil {
		return err
	}
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return err
	}

	dbPool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
	defer cancel()

	userService := appServices.NewUserService(appRepos.NewUserRepository(dbPool))
	user, changed, err := userService.PromoteToAdmin(ctx, c.String("email"))
	if err != nil {
		return err
	}

	if !changed {
		fmt.Fprintf(c.App.Writer, "%s (id %d) is already an administrator\n", user.Email, user.ID)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%s (id %d) is now an administrator\n", user.Email, user.ID)
	return nil
}
