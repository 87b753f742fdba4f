package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/modules/payment"
	"hotelbooking/internal/modules/pricing"
	"hotelbooking/internal/modules/promotion"
	"hotelbooking/internal/modules/refund"
	"hotelbooking/internal/pkg/clock"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/repository"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	hotelRepo := repository.NewHotelRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	ratePlanRepo := repository.NewRatePlanRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	clk := clock.System()
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	pricingEngine := pricing.NewEngine(ratePlanRepo)
	promoLedger := promotion.NewLedger(promotionRepo, clk)
	refundEngine := refund.NewEngine(clk)

	bookingService := booking.NewService(db, bookingRepo, roomRepo, guestRepo, pricingEngine, promoLedger, refundEngine, clk)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(db, paymentRepo, bookingRepo, invoiceRepo, clk, log)
	invoiceGenerator := payment.NewGenerator(db, invoiceRepo, bookingRepo, clk)
	paymentHandler := payment.NewHandler(paymentService, invoiceGenerator)

	catalogService := catalog.NewService(hotelRepo, roomRepo, ratePlanRepo, bookingRepo, pricingEngine)
	catalogHandler := catalog.NewHandler(catalogService)

	promotionHandler := promotion.NewHandler(promoLedger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	v1 := r.Group("/api/v1")
	{
		// public
		catalogHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.RequireAuth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			promotionHandler.RegisterRoutes(protected)
		}
	}

	log.WithField("port", cfg.Port).Info("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
