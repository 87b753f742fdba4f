package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "hotel.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM invoices")
	db.Exec("DELETE FROM payments")
	db.Exec("DELETE FROM booking_rooms")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM promotions")
	db.Exec("DELETE FROM rate_plans")
	db.Exec("DELETE FROM rooms")
	db.Exec("DELETE FROM room_types")
	db.Exec("DELETE FROM guests")
	db.Exec("DELETE FROM hotels")

	// ================== HOTELS ==================
	log.Println("Creating hotels...")

	almaty := domain.Hotel{
		Name:    "Alatau Grand",
		City:    "Almaty",
		Address: "12 Dostyk Ave",
	}
	db.Create(&almaty)

	astana := domain.Hotel{
		Name:    "Steppe Palace",
		City:    "Astana",
		Address: "3 Turan Ave",
	}
	db.Create(&astana)

	// ================== ROOM TYPES ==================
	log.Println("Creating room types...")

	standard := domain.RoomType{Name: "Standard", BasePrice: 80, Capacity: 2}
	deluxe := domain.RoomType{Name: "Deluxe", BasePrice: 140, Capacity: 3}
	suite := domain.RoomType{Name: "Suite", BasePrice: 260, Capacity: 4}
	db.Create(&standard)
	db.Create(&deluxe)
	db.Create(&suite)

	// ================== ROOMS ==================
	log.Println("Creating rooms...")

	types := []domain.RoomType{standard, standard, deluxe, suite}
	for _, hotel := range []domain.Hotel{almaty, astana} {
		for i, rt := range types {
			room := domain.Room{
				HotelID:    hotel.ID,
				RoomTypeID: rt.ID,
				Number:     fmt.Sprintf("%d0%d", i/2+1, i%2+1),
				Floor:      i/2 + 1,
				Capacity:   rt.Capacity,
				IsActive:   true,
			}
			db.Create(&room)
		}
	}

	// ================== RATE PLANS ==================
	log.Println("Creating rate plans...")

	year := time.Now().UTC().Year()
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year+1, 12, 31, 0, 0, 0, 0, time.UTC)
	weekendPct := 20.0

	plans := []domain.RatePlan{
		{
			RoomTypeID:      standard.ID,
			Name:            "Standard Flexible",
			Type:            domain.RatePlanFlexible,
			PricePerNight:   90,
			ValidFrom:       from,
			ValidTo:         to,
			FreeCancelHours: 24,
		},
		{
			RoomTypeID:      standard.ID,
			Name:            "Standard Saver",
			Type:            domain.RatePlanNonRefundable,
			PricePerNight:   75,
			ValidFrom:       from,
			ValidTo:         to,
			FreeCancelHours: 0,
		},
		{
			RoomTypeID:           deluxe.ID,
			Name:                 "Deluxe Flexible",
			Type:                 domain.RatePlanFlexible,
			PricePerNight:        150,
			ValidFrom:            from,
			ValidTo:              to,
			FreeCancelHours:      48,
			WeekendAdjustPercent: &weekendPct,
		},
		{
			RoomTypeID:      suite.ID,
			Name:            "Suite Flexible",
			Type:            domain.RatePlanFlexible,
			PricePerNight:   280,
			ValidFrom:       from,
			ValidTo:         to,
			FreeCancelHours: 72,
		},
	}
	for i := range plans {
		db.Create(&plans[i])
	}

	// ================== PROMOTIONS ==================
	log.Println("Creating promotions...")

	promos := []domain.Promotion{
		{
			Code:      "WELCOME10",
			Type:      domain.PromotionPercent,
			Value:     10,
			StartDate: from,
			EndDate:   to,
			Conditions: datatypes.NewJSONType(domain.PromotionConditions{
				MinOrderValue:     100,
				MaxDiscountAmount: 50,
				MaxUsageCount:     1000,
				NewCustomerOnly:   true,
			}),
		},
		{
			Code:      "SUMMER25",
			Type:      domain.PromotionAmount,
			Value:     25,
			StartDate: time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(year, 8, 31, 0, 0, 0, 0, time.UTC),
			Conditions: datatypes.NewJSONType(domain.PromotionConditions{
				MinOrderValue: 200,
				MaxUsageCount: 100,
			}),
		},
	}
	for i := range promos {
		db.Create(&promos[i])
	}

	log.Println("Seed complete.")
}
