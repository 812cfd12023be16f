//	@title			Asset Upload API
//	@version		1.0
//	@description	Uploads files to S3-compatible storage and tracks them in PostgreSQL.
//
//	@host		localhost:5000
//	@BasePath	/

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/mukeshiit422/epemcell-backend/internal/asset"
	"github.com/mukeshiit422/epemcell-backend/internal/config"
	"github.com/mukeshiit422/epemcell-backend/internal/db"
	appMiddleware "github.com/mukeshiit422/epemcell-backend/internal/middleware"
	"github.com/mukeshiit422/epemcell-backend/internal/storage"

	_ "github.com/mukeshiit422/epemcell-backend/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL, cfg.DatabaseSSLInsecure)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	store, err := storage.NewMinioStorage(storage.MinioOptions{
		Endpoint:   cfg.StorageEndpoint,
		Region:     cfg.StorageRegion,
		AccessKey:  cfg.StorageAccessKey,
		SecretKey:  cfg.StorageSecretKey,
		Bucket:     cfg.StorageBucket,
		PublicBase: cfg.StoragePublicBase,
		UseSSL:     cfg.StorageUseSSL,
	})
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}
	if cfg.StorageEnsureBucket {
		if err := store.EnsureBucket(context.Background(), cfg.StorageRegion); err != nil {
			log.Fatalf("object storage bucket setup failed: %v", err)
		}
	}

	// Wire dependencies: repository → service → handler
	assetRepo := asset.NewRepository(pool)
	assetSvc := asset.NewService(assetRepo, store)
	assetHandler := asset.NewHandler(assetSvc, cfg.UploadDir, cfg.MaxUploadMemory)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(assetHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server running on port %s (env=%s)", cfg.Port, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}

// newRouter builds the HTTP surface around the asset endpoints.
func newRouter(assetHandler *asset.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI at /swagger/index.html
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	assetHandler.RegisterRoutes(r)
	return r
}
