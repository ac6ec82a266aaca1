package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/noonfolio/src/config"
	"github.com/username/noonfolio/src/handlers"
	"github.com/username/noonfolio/src/logger"
	"github.com/username/noonfolio/src/processors"
	"github.com/username/noonfolio/src/services"
	"github.com/username/noonfolio/src/storage"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded",
				"method", r.Method,
				"path", r.URL.Path,
				"remoteAddr", r.RemoteAddr)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigins := map[string]bool{
			"http://localhost:3000": true,
		}

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, X-Requested-With, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, Content-Disposition")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			logger.L.Debug("Handling OPTIONS preflight request", "path", r.URL.Path, "origin", origin)
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Noonfolio backend server starting...")

	logger.L.Info("Initializing report cache...")
	reportCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)
	logger.L.Info("Report cache initialized.")

	logger.L.Info("Initializing store and services...",
		"repo", config.Cfg.GitHubUsername+"/"+config.Cfg.GitHubRepo,
		"branch", config.Cfg.GitHubBranch)
	store := storage.NewGitHubStore(
		config.Cfg.GitHubAPIBaseURL,
		config.Cfg.GitHubUsername,
		config.Cfg.GitHubRepo,
		config.Cfg.GitHubBranch,
		config.Cfg.GitHubToken,
	)

	commissionProcessor := processors.NewCommissionProcessor()
	lookupProcessor := processors.NewLookupProcessor()
	exportService := services.NewExportService()

	reportService := services.NewReportService(
		store, commissionProcessor, lookupProcessor,
		exportService, reportCache, config.Cfg.DataPrefix,
	)
	imageService := services.NewImageService(store, config.Cfg.ImagesPrefix)

	fileHandler := handlers.NewFileHandler(reportService)
	reportHandler := handlers.NewReportHandler(reportService)
	imageHandler := handlers.NewImageHandler(imageService)

	logger.L.Info("Configuring routes...")
	rootMux := http.NewServeMux()
	apiRouter := http.NewServeMux()

	apiRouter.HandleFunc("GET /api/files", fileHandler.HandleListFiles)
	apiRouter.HandleFunc("POST /api/files/upload", fileHandler.HandleUploadFile)
	apiRouter.HandleFunc("DELETE /api/files/{name}", fileHandler.HandleDeleteFile)

	apiRouter.HandleFunc("GET /api/reports/{name}", reportHandler.HandleGetReport)
	apiRouter.HandleFunc("POST /api/reports/{name}/trial", reportHandler.HandleApplyTrialPrice)
	apiRouter.HandleFunc("POST /api/reports/{name}/lookup", reportHandler.HandleBatchLookup)
	apiRouter.HandleFunc("GET /api/reports/{name}/export", reportHandler.HandleExportWorkbook)
	apiRouter.HandleFunc("POST /api/reports/{name}/save", reportHandler.HandleSaveModified)

	apiRouter.HandleFunc("GET /api/images/{sku}", imageHandler.HandleGetSKUImage)

	rootMux.Handle("/api/", apiRouter)

	rootMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" && r.Method == http.MethodGet {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "NOONFOLIO Backend is running"})
		} else {
			if !strings.HasPrefix(r.URL.Path, "/api/") {
				logger.L.Warn("Root level path not found", "method", r.Method, "path", r.URL.Path)
				http.NotFound(w, r)
			}
		}
	})

	logger.L.Info("Applying global middleware...")
	finalHandler := enableCORS(rateLimitMiddleware(rootMux))

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      finalHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	} else if err == http.ErrServerClosed {
		logger.L.Info("Server stopped gracefully.")
	}
}
