package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dermaview.org/internal/auth"
	"dermaview.org/internal/blob"
	"dermaview.org/internal/classify"
	"dermaview.org/internal/config"
	"dermaview.org/internal/diagnosis"
	"dermaview.org/internal/httpapi"
	"dermaview.org/internal/migrate"
	"dermaview.org/internal/obs"
	"dermaview.org/internal/user"
)

var (
	version = "0.3.1"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg := config.LoadWithDefaults()
	if os.Getenv("DERMAVIEW_AUTH_SECRET") == "" {
		log.Println("WARNING: DERMAVIEW_AUTH_SECRET not set, using insecure dev secret")
	}

	tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	// bounded setup context for migrations, S3 and the model health ping;
	// the store connection itself waits as long as it takes
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// stores: Postgres when a DSN is configured, in-memory otherwise
	var (
		db             *sql.DB
		userStore      user.Store
		diagnosisStore diagnosis.Store
	)
	if cfg.DatabaseDSN != "" {
		db, err = openDB(context.Background(), cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		if err := migrate.NewManager(db, "migrations").Up(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		userStore = user.NewPGStore(db)
		diagnosisStore = diagnosis.NewPGStore(db)
	} else {
		log.Println("DERMAVIEW_PG_DSN not set, using in-memory stores")
		userStore = user.NewInMemory()
		diagnosisStore = diagnosis.NewInMemory()
	}

	// blob storage backend
	var (
		blobs      blob.Store
		uploadsDir string
	)
	switch cfg.Upload.Backend {
	case "s3":
		s3, err := blob.NewS3(ctx, blob.S3Options{
			Bucket:       cfg.Upload.S3Bucket,
			Region:       cfg.Upload.S3Region,
			AccessKey:    cfg.Upload.S3AccessKey,
			SecretKey:    cfg.Upload.S3SecretKey,
			BaseEndpoint: cfg.Upload.S3BaseEndpoint,
		})
		if err != nil {
			log.Fatalf("s3 storage: %v", err)
		}
		blobs = s3
	default:
		disk, err := blob.NewDisk(cfg.Upload.Dir)
		if err != nil {
			log.Fatalf("disk storage: %v", err)
		}
		blobs = disk
		uploadsDir = disk.Dir()
	}

	// classifier: remote model server with a deterministic fallback
	var classifier classify.Classifier
	if cfg.Classify.ModelServerURL != "" {
		remote, err := classify.LoadRemote(ctx, cfg.Classify.ModelServerURL, cfg.Classify.Labels)
		if err != nil {
			log.Printf("model server unavailable (%v), falling back to static classifier", err)
		} else {
			classifier = remote
		}
	}
	if classifier == nil {
		classifier = classify.NewLocal(classify.NewStaticModel(len(cfg.Classify.Labels)), cfg.Classify.Labels)
	}
	log.Printf("classifier: %s", classifier.Name())

	users := user.NewService(userStore, tokens)
	diagnoses := diagnosis.NewService(diagnosisStore, blobs, classifier)

	api := httpapi.New(users, diagnoses, tokens, httpapi.StoreProbe{DB: db}, httpapi.Options{
		Version:    version,
		MaxUpload:  cfg.Upload.MaxBytes,
		UploadsDir: uploadsDir,
	})

	handler := api.Handler()
	// body cap admits the upload limit plus multipart framing overhead
	handler = httpapi.MaxBodyBytes(handler, cfg.Upload.MaxBytes+(1<<20))
	handler = httpapi.RateLimit(handler, cfg.Rate.Burst, cfg.Rate.PerSec)
	handler = httpapi.CORS(handler)
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.LoggingJSON(handler)
	handler = httpapi.RequestID(handler)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting dermaview-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}

// openDB connects and waits for the database to accept pings, retrying
// on a fixed delay for as long as the context allows. Serve mode passes
// a background context, so startup blocks until Postgres is up.
func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	for {
		err = db.PingContext(ctx)
		if err == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, err
		case <-time.After(2 * time.Second):
		}
	}
}
