package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gorilla/mux"
	"google.golang.org/api/option"

	"github.com/HR1937/community-care/cache"
	"github.com/HR1937/community-care/config"
	"github.com/HR1937/community-care/database"
	"github.com/HR1937/community-care/handlers"
	"github.com/HR1937/community-care/middleware"
	"github.com/HR1937/community-care/routes"
	"github.com/HR1937/community-care/services"
)

func main() {
	cfg := config.Load()

	db, err := database.ConnectDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer db.Close()

	feedCache := cache.New(cfg.RedisAddr, cfg.RedisDB, cfg.FeedCacheTTLSec)
	if feedCache == nil {
		log.Println("[CACHE] redis not configured, feed cache disabled")
	}

	router := mux.NewRouter()

	// 5 login attempts per minute per IP. Everything else is unthrottled.
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	routes.CreateAuthRoutes(db, cfg.JWTSecret, loginLimiter, router)

	posts := handlers.NewPostsHandler(db, feedCache, cfg.JWTSecret, cfg.GeminiKey, cfg.ElevenLabsKey)

	var helpCount handlers.HelpCountFunc
	if cfg.FirestoreProjectID != "" {
		fs, err := newFirestoreClient(cfg)
		if err != nil {
			log.Println("[ASSIST] firestore unavailable, helper network disabled:", err)
		} else {
			if cfg.FirebaseCreds != "" {
				if err := services.InitFirebase(cfg.FirebaseCreds); err != nil {
					log.Println("[FCM] init failed, helper notifications disabled:", err)
				}
			}
			assist := handlers.NewAssistHandler(fs, cfg.JWTSecret)
			chat := handlers.NewChatHandler(cfg.GeminiKey, cfg.ElevenLabsKey,
				cfg.CloudinaryCloud, cfg.CloudinaryKey, cfg.CloudinarySecret)
			routes.CreateAssistRoutes(assist, chat, router)
			helpCount = assist.ConfirmedHelpCount
		}
	}

	routes.CreatePostRoutes(posts, db, cfg.JWTSecret, helpCount, router)

	// Chatbot reply clips are written under public/audio.
	router.PathPrefix("/audio/").Handler(
		http.StripPrefix("/audio/", http.FileServer(http.Dir("public/audio"))))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newFirestoreClient(cfg config.Config) (*firestore.Client, error) {
	ctx := context.Background()
	if cfg.FirebaseCreds != "" {
		return firestore.NewClient(ctx, cfg.FirestoreProjectID, option.WithCredentialsFile(cfg.FirebaseCreds))
	}
	return firestore.NewClient(ctx, cfg.FirestoreProjectID)
}
