package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/saraswati/exam-gateway/internal/config"
	"github.com/saraswati/exam-gateway/internal/database"
	"github.com/saraswati/exam-gateway/internal/logger"
	"github.com/saraswati/exam-gateway/internal/repository"
	"github.com/saraswati/exam-gateway/internal/service"
)

// import-users bulk-loads exam seats from a CSV file without going through
// the HTTP surface. Same CSV shape as POST /api/upload/users:
// student_name, university_email, university_id.
func main() {
	var (
		filePath string
		prefix   string
	)
	flag.StringVar(&filePath, "file", "", "Path to the users CSV file")
	flag.StringVar(&prefix, "prefix", "", "Exam prefix, e.g. ab_")
	flag.Parse()

	if filePath == "" || prefix == "" {
		fmt.Println("Usage: import-users -file users.csv -prefix ab_")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	userService := service.NewUserService(userRepo, log)

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", filePath).Msg("Failed to open CSV")
	}
	defer f.Close()

	count, err := userService.ImportCSV(ctx, f, prefix)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Imported %d users with prefix %s\n", count, prefix)
}
