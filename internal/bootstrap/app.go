package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"notescan-backend/internal/cleanup"
	"notescan-backend/internal/cleanup/azureopenai"
	"notescan-backend/internal/contextdocs"
	"notescan-backend/internal/documents"
	"notescan-backend/internal/ingest"
	"notescan-backend/internal/layout"
	layoutazure "notescan-backend/internal/layout/azure"
	"notescan-backend/internal/notesets"
	"notescan-backend/internal/ocr"
	ocrazure "notescan-backend/internal/ocr/azure"
	"notescan-backend/internal/shared/config"
	"notescan-backend/internal/shared/server"
	"notescan-backend/internal/shared/storage/mongodb"
	"notescan-backend/internal/shared/storage/object"
	localstore "notescan-backend/internal/shared/storage/object/local"
	s3store "notescan-backend/internal/shared/storage/object/s3"
)

// App holds the wired dependencies behind the HTTP surface.
type App struct {
	Config config.Config
	Router *gin.Engine
	Mongo  *mongo.Client
	Store  object.ObjectStore

	DocumentsRepo documents.Repo
	NoteSetsRepo  notesets.Repo
	ContextRepo   contextdocs.Repo

	DocumentsService *documents.Service
	NoteSetsService  *notesets.Service
	ContextService   *contextdocs.Service
	Pipeline         *ingest.Pipeline
	Orchestrator     *ingest.Orchestrator

	DocumentsHandler *documents.Handler
	NoteSetsHandler  *notesets.Handler
	ContextHandler   *contextdocs.Handler
	IngestHandler    *ingest.Handler
}

// Build prepares dependencies and the router from configuration.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	mongoClient, err := buildMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Mongo:  mongoClient,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           app.Config,
		DocumentsHandler: app.DocumentsHandler,
		NoteSetsHandler:  app.NoteSetsHandler,
		ContextHandler:   app.ContextHandler,
		IngestHandler:    app.IngestHandler,
	})

	return app, nil
}

// Close releases long-lived resources.
func (a *App) Close(ctx context.Context) error {
	if a.Mongo == nil {
		return nil
	}
	return a.Mongo.Disconnect(ctx)
}

func buildMongo(ctx context.Context, cfg config.Config) (*mongo.Client, error) {
	if strings.TrimSpace(cfg.MongoURI) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: MONGODB_URI empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	opts := mongodb.OptionsFromEnv(mongodb.DefaultServerOptions())
	client, err := mongodb.Connect(ctx, cfg.MongoURI, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: mongo connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.UploadsDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	cfg := app.Config

	var docRepo documents.Repo
	var setRepo notesets.Repo
	var ctxRepo contextdocs.Repo
	if app.Mongo != nil {
		db := app.Mongo.Database(cfg.MongoDatabase)
		docRepo = documents.NewMongoRepo(db)
		setRepo = notesets.NewMongoRepo(db)
		ctxRepo = contextdocs.NewMongoRepo(db)
	} else {
		docRepo = documents.NewMemoryRepo()
		setRepo = notesets.NewMemoryRepo()
		ctxRepo = contextdocs.NewMemoryRepo()
	}

	docSvc := &documents.Service{Store: app.Store, Repo: docRepo}
	setSvc := notesets.NewService(setRepo, docRepo)
	ctxSvc := &contextdocs.Service{Store: app.Store, Repo: ctxRepo}

	var ocrClient ocr.Client = ocr.Unconfigured{}
	if cfg.VisionKey != "" && cfg.VisionEndpoint != "" {
		ocrClient = ocrazure.New(cfg.VisionEndpoint, cfg.VisionKey, cfg.OCRPollAttempts, cfg.OCRPollInterval)
	} else {
		log.Printf("bootstrap: vision credentials absent; uploads will be rejected")
	}

	var layoutClient layout.Client = layout.Disabled{}
	if cfg.DocIntelKey != "" && cfg.DocIntelEndpoint != "" {
		layoutClient = layoutazure.New(cfg.DocIntelEndpoint, cfg.DocIntelKey, cfg.OCRPollAttempts, cfg.OCRPollInterval)
	}

	var cleanupClient cleanup.Client = cleanup.Disabled{}
	if cfg.OpenAIKey != "" && cfg.OpenAIEndpoint != "" {
		cleanupClient = azureopenai.New(cfg.OpenAIEndpoint, cfg.OpenAIKey, cfg.OpenAIDeployment, cfg.OpenAIAPIVersion)
	}

	pipeline := &ingest.Pipeline{
		OCR:          ocrClient,
		Layout:       layoutClient,
		Cleanup:      cleanupClient,
		Context:      ctxSvc,
		Docs:         docRepo,
		Store:        app.Store,
		ContextLimit: cfg.ContextLimit,
	}
	orchestrator := &ingest.Orchestrator{Pipeline: pipeline, Sets: setSvc}

	app.DocumentsRepo = docRepo
	app.NoteSetsRepo = setRepo
	app.ContextRepo = ctxRepo
	app.DocumentsService = docSvc
	app.NoteSetsService = setSvc
	app.ContextService = ctxSvc
	app.Pipeline = pipeline
	app.Orchestrator = orchestrator
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.NoteSetsHandler = notesets.NewHandler(setSvc)
	app.ContextHandler = contextdocs.NewHandler(ctxSvc)
	app.IngestHandler = ingest.NewHandler(pipeline, orchestrator, app.Store, cfg.BatchMaxFiles)
}
