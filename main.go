package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"game-contest-system/clients"
	"game-contest-system/config"
	"game-contest-system/models"
	"game-contest-system/services"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal("failed to load .env file:", err)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&models.ContestGame{}); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	store := services.NewGormGameStore(db)
	twitter := clients.NewTwitterClient(cfg)
	judge := clients.NewOpenAIJudge(cfg)
	selector := services.NewWinnerSelector(judge)
	lifecycle := services.NewLifecycle(store, twitter, selector, cfg.GameDuration)

	scheduler, err := services.NewScheduler(lifecycle)
	if err != nil {
		log.Fatal("failed to create scheduler:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DisableCreateGame {
		log.Println("DISABLE_CREATE_GAME is set, skipping create game task")
	} else {
		if err := scheduler.ScheduleCreateGame(ctx, cfg.CreateGameInterval, cfg.CreateGameOnStartup); err != nil {
			log.Fatal("failed to schedule create game task:", err)
		}
	}
	if err := scheduler.ScheduleCloseGame(ctx, cfg.CloseGameInterval); err != nil {
		log.Fatal("failed to schedule close game task:", err)
	}

	scheduler.Start()
	log.Printf("scheduler running: create every %s, close check every %s, game duration %s (0 = random)",
		cfg.CreateGameInterval, cfg.CloseGameInterval, cfg.GameDuration)

	<-ctx.Done()
	log.Println("shutting down gracefully, waiting for in-flight jobs...")
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("error stopping scheduler: %v", err)
	}
	log.Println("scheduler stopped")
}
