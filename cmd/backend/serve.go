package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/hairizuanbinnoorazman/job-board/auth"
	"github.com/hairizuanbinnoorazman/job-board/cmd/backend/handlers"
	"github.com/hairizuanbinnoorazman/job-board/database"
	"github.com/hairizuanbinnoorazman/job-board/flyer"
	"github.com/hairizuanbinnoorazman/job-board/genai"
	"github.com/hairizuanbinnoorazman/job-board/job"
	"github.com/hairizuanbinnoorazman/job-board/logger"
	"github.com/hairizuanbinnoorazman/job-board/session"
	"github.com/hairizuanbinnoorazman/job-board/storage"
	"github.com/hairizuanbinnoorazman/job-board/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogrusLogger(cfg.Log.Level)
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	log.Info(ctx, "database connected", map[string]interface{}{
		"driver":   cfg.Database.Driver,
		"database": cfg.Database.Database,
	})

	userStore := user.NewMySQLStore(db, log)
	jobStore := job.NewMySQLStore(db, log)

	revocations, closeRevocations, err := newRevocationStore(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeRevocations()

	sessionManager := session.NewManager(revocations, log)
	if cfg.Session.CleanupInterval > 0 {
		sessionManager.StartCleanup(cfg.Session.CleanupInterval)
		defer sessionManager.StopCleanup()
	}

	authenticator, err := auth.NewAuthenticator(userStore, sessionManager, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)
	if err != nil {
		return fmt.Errorf("failed to create authenticator: %w", err)
	}

	blobStore, err := storage.NewBlobStorage(ctx, storage.Config{
		Type:          cfg.Storage.Type,
		BaseDir:       cfg.Storage.BaseDir,
		PublicBaseURL: cfg.Server.PublicURL + filesPrefix,
		Bucket:        cfg.Storage.S3Bucket,
		Region:        cfg.Storage.S3Region,
		S3BaseURL:     cfg.Storage.S3BaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info(ctx, "storage initialized", map[string]interface{}{
		"type": cfg.Storage.Type,
	})

	// Without Bedrock, listings need an uploaded flyer and a written
	// description.
	var (
		images      genai.ImageGenerator
		text        handlers.TextGenerator
		description job.DescriptionWriter
	)
	if cfg.GenAI.Enabled {
		bedrock, err := genai.NewBedrockClient(ctx, genai.BedrockConfig{
			Region:       cfg.GenAI.Region,
			TextModelID:  cfg.GenAI.TextModel,
			ImageModelID: cfg.GenAI.ImageModel,
			MaxTokens:    cfg.GenAI.MaxTokens,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize bedrock: %w", err)
		}
		images = bedrock
		text = bedrock
		description = genai.NewDescriptionWriter(bedrock)

		log.Info(ctx, "generative models enabled", map[string]interface{}{
			"region": cfg.GenAI.Region,
		})
	}

	jobService := job.NewService(jobStore, flyer.NewResolver(blobStore, images, log), description, log)

	cookies := securecookie.New([]byte(cfg.Auth.CookieSecret), nil)

	deps := routerDeps{
		log:    log,
		db:     sqlDB,
		authMW: handlers.NewAuthMiddleware(authenticator, cookies, cfg.Auth.CookieName, log),
		auth:   handlers.NewAuthHandler(userStore, authenticator, cookies, cfg.Auth.CookieName, cfg.Auth.CookieSecure, log),
		jobs:   handlers.NewJobHandler(jobService, log),
		genai:  handlers.NewGenAIHandler(text, log),
	}
	if strings.EqualFold(cfg.Storage.Type, storage.TypeLocal) {
		deps.files = handlers.NewFileHandler(blobStore, filesPrefix, log)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}

// openDatabase connects using cfg. SQLite databases are migrated in place
// since the SQL migrations target MySQL.
func openDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:       cfg.Driver,
		Host:         cfg.Host,
		Port:         cfg.Port,
		User:         cfg.User,
		Password:     cfg.Password,
		Database:     cfg.Database,
		Path:         cfg.Path,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Driver == database.DriverSQLite {
		if err := db.AutoMigrate(&user.User{}, &job.Job{}); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
	}
	return db, nil
}

// newRevocationStore picks Redis when a URL is configured and memory
// otherwise. The returned func releases the store.
func newRevocationStore(ctx context.Context, cfg SessionConfig) (session.RevocationStore, func(), error) {
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return session.NewRedisStore(client), func() { client.Close() }, nil
}
