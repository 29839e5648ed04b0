package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"parley/config"
	"parley/internal/auth"
	"parley/internal/chat"
	"parley/internal/database"
	"parley/internal/friends"
	"parley/internal/profile"
	"parley/pkg/jwt"
)

type AppServices struct {
	ProfileHandler *profile.JSONHandler
	ChatHandler    *chat.JSONHandler
	FriendsHandler *friends.JSONHandler
}

func ProvideAppServices(
	profileHandler *profile.JSONHandler,
	chatHandler *chat.JSONHandler,
	friendsHandler *friends.JSONHandler,
) *AppServices {
	return &AppServices{
		ProfileHandler: profileHandler,
		ChatHandler:    chatHandler,
		FriendsHandler: friendsHandler,
	}
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gormDB, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := gormDB.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.Fatal("Error closing database connection")
		}
	}(db)

	services := InitializeAppWire(db)

	authMiddleware := auth.NewMiddleware(jwt.NewJWT(cfg.TokenSecret))

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	authed := r.PathPrefix("/").Subrouter()
	authed.Use(authMiddleware.Handler)
	profile.SetupJSONRoutes(authed, services.ProfileHandler)
	chat.SetupJSONRoutes(authed, services.ChatHandler)
	friends.SetupJSONRoutes(authed, services.FriendsHandler)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: cfg.AllowCredentials(),
	}).Handler(r)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("Starting server on %s", cfg.Addr)
	log.Fatal(server.ListenAndServe())
}
