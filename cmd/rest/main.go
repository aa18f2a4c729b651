package main

import (
	"context"
	"log"

	"github.com/gecBurton/dosac/internal/bootstrap"
	"github.com/gecBurton/dosac/internal/config"
	"github.com/gecBurton/dosac/internal/server"
	"github.com/gecBurton/dosac/internal/tracer"
	"github.com/gecBurton/dosac/pkg/database"
)

func main() {
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Background workers
	go func() {
		log.Println("Background: starting ingestion consumer...")
		if err := container.IngestionService.Consume(context.Background()); err != nil {
			log.Printf("Background ingestion error: %v", err)
		}
	}()
	if container.DocumentNotifier != nil {
		go func() {
			if err := container.DocumentNotifier.Start(); err != nil {
				log.Printf("Background notifier error: %v", err)
			}
		}()
	}

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
