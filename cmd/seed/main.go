package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Freeeeeet/headsup_bot/internal/app"
	"github.com/Freeeeeet/headsup_bot/internal/migrations"
	"github.com/Freeeeeet/headsup_bot/internal/repository"
	"github.com/Freeeeeet/headsup_bot/internal/seed"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "students.csv", "CSV file with name,school,group rows")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing to the database")
	flag.Parse()

	// Файла .env может не быть, тогда используем переменные окружения
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENV", "development")

	logger := app.NewLogger(v.GetString("ENV")).Named("seed")
	defer logger.Sync()

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	rows, rowErrs, err := seed.Parse(f)
	if err != nil {
		logger.Fatal("Failed to read roster", zap.String("file", *file), zap.Error(err))
	}
	for _, rowErr := range rowErrs {
		logger.Warn("Skipping invalid row", zap.Int("line", rowErr.Line), zap.String("reason", rowErr.Err))
	}
	logger.Info("Roster parsed", zap.Int("valid", len(rows)), zap.Int("invalid", len(rowErrs)))

	if *dryRun {
		return
	}

	dsn := v.GetString("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrator.Close()

	loaded, err := seed.Load(ctx, repository.NewStudentRepository(pool), rows, logger)
	if err != nil {
		logger.Fatal("Failed to seed students", zap.Int("loaded", loaded), zap.Error(err))
	}
	logger.Info("✅ Students seeded", zap.Int("count", loaded))
}
