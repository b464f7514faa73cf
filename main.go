package main

import (
	"context"
	"log"
	"os"
	"time"

	"tableside/config"
	"tableside/internal/aggregate"
	httpapi "tableside/internal/api/http"
	"tableside/internal/service"
	"tableside/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	ratingWriter := config.NewKafkaWriter("ratings")
	defer ratingWriter.Close()

	cache := storage.NewRedisRatingCache(rdb, 24*time.Hour)
	publisher := storage.NewKafkaRatingPublisher(ratingWriter)

	orderSvc := service.NewOrderService(repo, repo, config.PaymentDelay())
	menuSvc := service.NewMenuService(repo, service.DefaultQRGenerator{})
	ratingSvc := service.NewRatingService(repo, repo, cache, publisher)

	ratingReader := config.NewKafkaReader("ratings", "tableside-aggregate")
	defer ratingReader.Close()

	consumer := aggregate.NewConsumer(ratingReader, repo, cache)
	go consumer.Start(context.Background())

	handler := httpapi.NewHandler(orderSvc, menuSvc, ratingSvc)
	router := httpapi.NewRouter(handler)

	addr := ":" + port()
	httpapi.StartServer(addr, router)
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
