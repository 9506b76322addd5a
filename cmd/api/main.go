package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"roomreserve/internal/config"
	"roomreserve/internal/database"
	"roomreserve/internal/middleware"
	"roomreserve/internal/modules/catalog"
	"roomreserve/internal/modules/payment"
	"roomreserve/internal/modules/reservation"
	"roomreserve/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	roomRepo := repository.NewRoomRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	paymentStore := repository.NewPaymentStore(db)
	providerRepo := repository.NewProviderRepository(db)

	catalogService := catalog.NewService(roomRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	reservationService := reservation.NewService(reservationRepo, roomRepo)
	reservationHandler := reservation.NewHandler(reservationService)

	gateways := payment.NewGatewayRegistry(log.Printf)
	paymentService := payment.NewService(
		reservationRepo,
		paymentStore,
		providerRepo,
		gateways,
		cfg.GatewayTimeout,
		log.Printf,
	)
	paymentHandler := payment.NewHandler(paymentService, log.Printf)

	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		catalogHandler.RegisterRoutes(v1)
		reservationHandler.RegisterRoutes(v1)
		paymentHandler.RegisterRoutes(v1)
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
