package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/epiqdine/epiqdine/internal/database"
	"github.com/epiqdine/epiqdine/internal/identity"
	"github.com/epiqdine/epiqdine/internal/logging"
	"github.com/epiqdine/epiqdine/internal/server"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	logger := logging.Setup(os.Getenv("EPIQDINE_LOG_LEVEL"), os.Getenv("EPIQDINE_LOG_FORMAT"))

	port := os.Getenv("EPIQDINE_PORT")
	if port == "" {
		port = "3000"
	}

	dbPath := os.Getenv("EPIQDINE_DB_PATH")
	if dbPath == "" {
		dbPath = "epiqdine.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	keyB64 := os.Getenv("FIREBASE_KEY_BASE64")
	if keyB64 == "" {
		log.Fatal("FIREBASE_KEY_BASE64 is required")
	}
	credentials, err := base64.StdEncoding.DecodeString(keyB64)
	if err != nil {
		log.Fatalf("failed to decode FIREBASE_KEY_BASE64: %v", err)
	}

	verifier, err := identity.NewFirebaseVerifier(context.Background(), credentials)
	if err != nil {
		log.Fatalf("failed to init token verifier: %v", err)
	}

	secret := os.Getenv("JWT_ACCESS_SECRET")
	if secret == "" {
		log.Fatal("JWT_ACCESS_SECRET is required")
	}
	issuer := identity.NewIssuer([]byte(secret))

	cfg := server.Config{
		AllowedOrigins: allowedOrigins(),
		SecureCookies:  os.Getenv("EPIQDINE_SECURE_COOKIES") == "true",
	}

	srv := server.New(db, verifier, issuer, cfg, logger)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			case <-cleanupCtx.Done():
				return
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		fmt.Printf("Epiqdine server running on port %s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

func allowedOrigins() []string {
	raw := os.Getenv("EPIQDINE_ALLOWED_ORIGINS")
	if raw == "" {
		return []string{"http://localhost:5173", "https://epiqdine.netlify.app"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
