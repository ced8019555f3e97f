package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/reel/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default config template to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", r.configPath)
	return r.writePlain("✓ Created %s\nNext: run `reel setup token --token <read access token>`\n", r.configPath)
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", r.config.Database.Path)

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	switch {
	case cmd.Bool("rollback"):
		r.logger.Info("rolling back last migration")
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	case !cmd.Bool("status"):
		r.logger.Info("running database migrations")
		if err := shared.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	statuses, err := shared.MigrationStatuses(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration status: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Database: %s", r.config.Database.Path))
	for _, s := range statuses {
		mark := "pending"
		if s.Applied {
			mark = "applied"
		}
		r.writePlain("%04d  %-30s %s\n", s.Version, s.Name, mark)
	}
	return nil
}

// SetupToken stores a TMDb read access token in the config file.
//
// The token comes from --token or from the Authorization header of a cURL command.
func (r *Runner) SetupToken(ctx context.Context, cmd *cli.Command) error {
	token := cmd.String("token")
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	set := 0
	for _, v := range []string{token, curlCmd, curlFile} {
		if v != "" {
			set++
		}
	}
	if set == 0 {
		return fmt.Errorf("%w: one of --token, --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if set > 1 {
		return fmt.Errorf("%w: --token, --curl and --curl-file are mutually exclusive", shared.ErrInvalidArgument)
	}

	if token == "" {
		var req *shared.CurlRequest
		var err error
		if curlFile != "" {
			req, err = shared.ParseCurlFile(curlFile)
		} else {
			req, err = shared.ParseCurlCommand(curlCmd)
		}
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		if token, err = req.BearerToken(); err != nil {
			return err
		}
		r.logger.Debug("token read from cURL", "url", req.URL)
	}

	r.config.TMDB.AccessToken = token
	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("token saved", "path", r.configPath)
	return r.writePlain("✓ Token saved to %s (%s)\n", r.configPath, shared.Truncate(token, 4))
}
