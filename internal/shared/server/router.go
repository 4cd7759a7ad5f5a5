package server

import (
	"context"
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/creations"
	"quickai-backend/internal/entitlement"
	"quickai-backend/internal/generate"
	"quickai-backend/internal/identity"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/imagegen/clipdrop"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/llm/gemini"
	"quickai-backend/internal/media"
	"quickai-backend/internal/media/cloudinary"
	"quickai-backend/internal/pdfchat"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/server/middleware"
	"quickai-backend/internal/shared/server/respond"
	"quickai-backend/internal/shared/storage/db"
	"quickai-backend/internal/shared/storage/object"
	localstore "quickai-backend/internal/shared/storage/object/local"
	s3store "quickai-backend/internal/shared/storage/object/s3"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Dependencies
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var provider identity.Provider
	if cfg.IdentityAPIURL != "" {
		httpProvider, err := identity.NewHTTPProvider(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
		if err != nil {
			log.Printf("identity provider misconfigured, falling back to memory: %v", err)
			provider = identity.NewMemoryProvider()
		} else {
			provider = httpProvider
		}
	} else {
		provider = identity.NewMemoryProvider()
	}

	gate := &entitlement.Gate{
		Plans:     provider,
		Quota:     identity.MetadataQuota{Provider: provider},
		FreeQuota: cfg.FreeQuota,
	}

	var llmClient llm.Client
	if geminiClient, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.GeminiModel); err != nil {
		log.Printf("text generation unavailable: %v", err)
	} else {
		llmClient = geminiClient
	}

	var imageClient imagegen.Client
	if cfg.ClipDropAPIKey != "" {
		if clipdropClient, err := clipdrop.NewClient(cfg.ClipDropAPIKey); err != nil {
			log.Printf("image generation unavailable: %v", err)
		} else {
			imageClient = clipdropClient
		}
	}

	var store object.ObjectStore
	if cfg.ObjectStoreType == "s3" {
		s3, err := s3store.New(context.Background(), cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
		if err != nil {
			log.Printf("s3 store unavailable, falling back to local: %v", err)
		} else {
			store = s3
		}
	}
	if store == nil {
		store = localstore.New(cfg.LocalStoreDir, cfg.PublicBaseURL)
	}

	var uploader media.Uploader
	var transformer media.Transformer
	if cfg.CloudinaryCloudName != "" {
		cdn, err := cloudinary.NewClient(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("media CDN unavailable: %v", err)
		} else {
			uploader = cdn
			transformer = cdn
		}
	}
	if uploader == nil {
		uploader = media.StoreUploader{Store: store}
	}

	var creationsRepo creations.Repo
	var chatRepo pdfchat.Repo
	if sqlDB != nil {
		creationsRepo = &creations.PGRepo{DB: sqlDB}
		chatRepo = &pdfchat.PGRepo{DB: sqlDB}
	} else {
		creationsRepo = creations.NewMemoryRepo()
		chatRepo = pdfchat.NewMemoryRepo()
	}

	genSvc := &generate.Service{
		LLM:       llmClient,
		Images:    imageClient,
		Media:     transformer,
		Uploader:  uploader,
		Creations: creationsRepo,
		Gate:      gate,
	}
	genHandler := generate.NewHandler(genSvc)

	chatSvc := &pdfchat.Service{Repo: chatRepo, LLM: llmClient}
	chatHandler := pdfchat.NewHandler(chatSvc, gate)

	creationsHandler := creations.NewHandler(creationsRepo)

	r.GET("/health", func(c *gin.Context) {
		respond.Message(c, "Server is live")
	})

	ai := r.Group("/api/ai")
	ai.Use(
		middleware.Auth(provider),
		middleware.Entitlement(gate),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				"DEFAULT": {Rate: 1, Burst: 10},
			},
		}),
	)
	genHandler.RegisterRoutes(ai)
	chatHandler.RegisterRoutes(ai)

	user := r.Group("/api/user")
	user.Use(middleware.Auth(provider), middleware.Entitlement(gate))
	creationsHandler.RegisterRoutes(user)

	if cfg.ObjectStoreType == "local" {
		r.Static("/files", cfg.LocalStoreDir)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
