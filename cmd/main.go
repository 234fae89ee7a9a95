package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"servicom/backend/internal/api/handler"
	"servicom/backend/internal/complaint"
	"servicom/backend/internal/config"
	"servicom/backend/internal/identity"
	"servicom/backend/internal/livefeed"
	"servicom/backend/internal/models"
	"servicom/backend/internal/notify"
	"servicom/backend/internal/stats"
	"servicom/backend/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: "",
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.Profile{},
		&models.Complaint{},
		&models.ComplaintResponse{},
		&models.Feedback{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

// setupNotifications wires the trigger and delivery worker. Both the broker
// and the Telegram sink are optional; the service runs without them.
func setupNotifications(ctx context.Context, s *storage.Service) *notify.Trigger {
	trigger := &notify.Trigger{Feed: s}

	amqpURL := config.AMQPURL()
	if amqpURL == "" {
		log.Println("Warning: AMQP_URL not set, notification delivery disabled.")
		return trigger
	}

	publisher, err := notify.NewRabbitPublisher(amqpURL)
	if err != nil {
		log.Fatalf("Failed to connect RabbitMQ publisher: %v", err)
	}
	trigger.Publisher = publisher

	consumer, err := notify.NewRabbitConsumer(amqpURL)
	if err != nil {
		log.Fatalf("Failed to connect RabbitMQ consumer: %v", err)
	}

	var telegramSink *notify.TelegramSink
	if token := config.TelegramToken(); token != "" {
		telegramSink, err = notify.NewTelegramSink(token)
		if err != nil {
			log.Printf("Warning: Telegram sink unavailable: %v", err)
		}
	}

	worker := &notify.Worker{
		Consumer:    consumer,
		Departments: s,
		Telegram:    telegramSink,
	}
	if err := worker.Run(ctx); err != nil {
		log.Fatalf("Failed to start notification worker: %v", err)
	}

	return trigger
}

func main() {
	log.Println("Starting Servicom Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	trigger := setupNotifications(ctx, s)

	identityService := identity.NewService(s, trigger)
	complaintService := complaint.NewService(s, trigger)
	statsService := stats.NewService(s)

	hub := livefeed.NewHub(s)
	go hub.Run(ctx)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(identityService, complaintService, statsService, s, hub)

	// Public surface
	r.GET("/", h.Home)
	r.GET("/departments", h.ListDepartments)
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)

	// Authenticated surface
	auth := r.Group("/", h.AuthRequired())
	{
		auth.GET("/dashboard", h.Dashboard)
		auth.GET("/profile", h.GetProfile)
		auth.PUT("/profile", h.UpdateProfile)

		auth.POST("/complaints", h.SubmitComplaint)
		auth.GET("/complaints", h.ListComplaints)
		auth.GET("/complaints/:reference", h.TrackComplaint)
		auth.POST("/complaints/:reference/feedback", h.GiveFeedback)

		staff := auth.Group("/", h.StaffOnly())
		{
			staff.POST("/complaints/:reference/status", h.TransitionComplaint)
			staff.POST("/complaints/:reference/responses", h.RespondToComplaint)
			staff.GET("/feedback", h.FeedbackOverview)
			staff.GET("/ws/feed", h.ServeFeed)
		}
	}

	server := &http.Server{
		Addr:           config.ServerAddr(),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
