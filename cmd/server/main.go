package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/padmamangal/padmamangal-backend/internal/calls"
	"github.com/padmamangal/padmamangal-backend/internal/config"
	"github.com/padmamangal/padmamangal-backend/internal/database"
	"github.com/padmamangal/padmamangal-backend/internal/geo"
	"github.com/padmamangal/padmamangal-backend/internal/handlers"
	"github.com/padmamangal/padmamangal-backend/internal/media"
	"github.com/padmamangal/padmamangal-backend/internal/middleware"
	"github.com/padmamangal/padmamangal-backend/internal/realtime"
	"github.com/padmamangal/padmamangal-backend/internal/routes"
	"github.com/padmamangal/padmamangal-backend/internal/services"
	"github.com/padmamangal/padmamangal-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	log.Printf("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer pg.Close()

	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()
	log.Println("✅ Redis connected")

	log.Printf("Connecting to MongoDB...")
	mongoClient, db, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)
	log.Println("✅ MongoDB connected")

	// Change-stream bus: Redis pub/sub fan-out across instances
	bus := realtime.NewRedisBus(rdb)
	busCtx, stopBus := context.WithCancel(context.Background())
	defer stopBus()
	bus.Start(busCtx)
	log.Println("✅ Realtime bus started")

	rooms := store.NewRooms(db)
	messages := store.NewMessages(db, bus)
	profiles := store.NewProfiles(db, bus)
	callStore := store.NewCalls(db, bus)

	ctx := context.Background()
	if err := messages.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure message indexes: %v", err)
	}
	if err := callStore.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure call indexes: %v", err)
	}
	if err := rooms.EnsureGroup(ctx); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure group room: %v", err)
	}

	// Uploads: Cloudinary when configured, local disk otherwise
	var uploader media.Uploader
	uploadDir := ""
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		uploader, err = media.NewCloudinaryUploader(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "padmamangal")
		if err != nil {
			log.Fatal("Failed to initialize Cloudinary:", err)
		}
		log.Println("✅ Cloudinary uploads enabled")
	} else {
		disk, err := media.NewDiskUploader(cfg.UploadDir)
		if err != nil {
			log.Fatal("Failed to prepare upload directory:", err)
		}
		uploader = disk
		uploadDir = cfg.UploadDir
		log.Printf("✅ Local uploads enabled (dir: %s)", cfg.UploadDir)
	}

	accounts := services.NewAccounts(pg)
	sessions := services.NewSessions(rdb)
	tokens := calls.NewTokenIssuer(cfg.CallAPIKey, cfg.CallAPISecret)
	locator := geo.NewIPAPILocator(cfg.GeoLookupURL)

	h := &routes.Handlers{
		Auth:   &handlers.Auth{Accounts: accounts, Sessions: sessions},
		Upload: &handlers.Upload{Uploader: uploader, DefaultHost: cfg.DefaultPublicHost},
		CallToken: &handlers.CallToken{
			Issuer: tokens,
		},
		History: &handlers.History{Sessions: sessions, Messages: messages},
		Socket: &handlers.ChatSocket{
			Accounts:    accounts,
			Sessions:    sessions,
			Bus:         bus,
			Rooms:       rooms,
			Messages:    messages,
			Profiles:    profiles,
			Calls:       callStore,
			Tokens:      tokens,
			Uploader:    uploader,
			Locator:     locator,
			DefaultHost: cfg.DefaultPublicHost,
			CallWSURL:   cfg.CallWSURL,
			SpoolDir:    "", // empty means the system temp dir
		},
		UploadDir: uploadDir,
	}

	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.IsProduction() {
		r.Use(middleware.NewRateLimiter(rdb).Handler)
		log.Println("✅ Per-IP rate limiting enabled")
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h)

	log.Printf("🚀 Padmamangal backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
