package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"art-history-quiz-bot/internal/config"
	"art-history-quiz-bot/internal/infra/postgres"
	"art-history-quiz-bot/internal/infra/postgres/repository"
	"art-history-quiz-bot/internal/logger"
	"art-history-quiz-bot/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var bankPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the YAML question bank into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), bankPath)
		},
	}

	cmd.Flags().StringVar(&bankPath, "bank", "", "path to the question bank (defaults to the configured seed_file)")
	return cmd
}

func runSeed(ctx context.Context, bankPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        cfg.DB.MaxConnections,
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if bankPath == "" {
		bankPath = cfg.SeedFilePath
	}

	seeder := seed.New(repository.NewQuestionRepository(pool), log)
	res, err := seeder.SeedFromFile(ctx, bankPath)
	if err != nil {
		return fmt.Errorf("seed questions: %w", err)
	}

	fmt.Printf("seeded %d questions, %d already present\n", res.Inserted, res.Skipped)
	return nil
}
