package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsplits/internal/config"
	"github.com/2beens/gymsplits/internal/db"
	"github.com/2beens/gymsplits/internal/exercises"
	"github.com/2beens/gymsplits/internal/logging"
	"github.com/2beens/gymsplits/internal/muscles"
	"github.com/2beens/gymsplits/internal/users"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	seedPath := flag.String("file", "./exercises.json", "path of the exercises JSON file")
	envFile := flag.String("env-file", ".env", "optional file with secrets as env vars")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load env file [%s]: %s", *envFile, err)
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout: true,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})

	seedFile, err := os.Open(*seedPath)
	if err != nil {
		log.Fatalf("open seed file: %s", err)
	}
	defer func() {
		if err := seedFile.Close(); err != nil {
			log.Warnf("close seed file: %s", err)
		}
	}()

	newExercises, unreadable, err := readSeed(seedFile)
	if err != nil {
		log.Fatalf("read seed file %s: %s", *seedPath, err)
	}
	for _, skipped := range unreadable {
		log.Warnf("skipped [%s]: %s", skipped.Name, skipped.Reason)
	}
	log.Infof("importing %d exercises from %s", len(newExercises), *seedPath)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("GYMSPLITS_POSTGRES_PASS"),
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	service := exercises.NewService(
		exercises.NewRepo(dbPool),
		exercises.NewFavoritesRepo(dbPool),
		muscles.NewRepo(dbPool),
		users.NewRepo(dbPool),
		db.NewTxRunner(dbPool),
	)

	result, err := service.CreateBulk(ctx, newExercises)
	if err != nil {
		log.Errorf("import aborted: %s", err)
		return
	}

	for _, skipped := range result.Skipped {
		log.Warnf("skipped [%s]: %s", skipped.Name, skipped.Reason)
	}
	log.Infof("import done: %d created, %d skipped", len(result.Created), len(result.Skipped)+len(unreadable))
}
