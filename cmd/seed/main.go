package main

import (
	"log"
	"os"

	"roomreserve/internal/database"
	"roomreserve/internal/domain"
	"roomreserve/internal/modules/payment"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "roomreserve.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.MeetingRoom{},
		&domain.Reservation{},
		&domain.Payment{},
		&domain.PaymentProvider{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (children first to keep foreign keys happy)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM reservations")
	db.Exec("DELETE FROM payment_providers")
	db.Exec("DELETE FROM meeting_rooms")

	log.Println("Creating meeting rooms...")
	rooms := []domain.MeetingRoom{
		{Name: "Boardroom A", Capacity: 12, HourlyRate: 30000, IsActive: true},
		{Name: "Focus Room 1", Capacity: 4, HourlyRate: 12000, IsActive: true},
		{Name: "Workshop Hall", Capacity: 30, HourlyRate: 55000, IsActive: true},
	}
	for i := range rooms {
		if err := db.Create(&rooms[i]).Error; err != nil {
			log.Fatal("room seed failed:", err)
		}
	}

	log.Println("Creating payment providers...")
	providers := []domain.PaymentProvider{
		{Name: payment.ProviderCard, Endpoint: "https://pg.card.example/api/v1"},
		{Name: payment.ProviderSimple, Endpoint: "https://pg.simple.example/api/v1"},
		{Name: payment.ProviderVirtualAccount, Endpoint: "https://pg.va.example/api/v1"},
	}
	for i := range providers {
		if err := db.Create(&providers[i]).Error; err != nil {
			log.Fatal("provider seed failed:", err)
		}
	}

	log.Printf("Seed complete: %d rooms, %d providers", len(rooms), len(providers))
}
