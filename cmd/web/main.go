// cmd/web/main.go
//
// eTAS portal entry point.
//
// Context
//   Boot order matters: environment, logger, config, database, storage,
//   forms, views, pipeline, then the HTTP stack.  Each step fails fast —
//   a portal that cannot reach its applicant store or parse its form
//   definitions should not accept traffic.
//
// Workflow
//   •  Components self-register in their init() functions; the blank
//      imports below pull them in.  MountAll hands every component the
//      shared App container and the root router.
//   •  The middleware chain wraps outermost first: request enrichment,
//      security headers, HTTPS redirect, request logging.
//   •  /metrics and the /media file server are mounted beside the
//      components.  SIGINT/SIGTERM drain the server gracefully.
//
//------------------------------------------------------------------------------

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ica-so/etas-portal/internal/applicant"
	"github.com/ica-so/etas-portal/internal/component"
	"github.com/ica-so/etas-portal/internal/config"
	"github.com/ica-so/etas-portal/internal/database"
	"github.com/ica-so/etas-portal/internal/document"
	"github.com/ica-so/etas-portal/internal/export"
	"github.com/ica-so/etas-portal/internal/form"
	"github.com/ica-so/etas-portal/internal/logger"
	"github.com/ica-so/etas-portal/internal/middleware"
	"github.com/ica-so/etas-portal/internal/raster"
	"github.com/ica-so/etas-portal/internal/requestinfo"
	"github.com/ica-so/etas-portal/internal/server"
	"github.com/ica-so/etas-portal/internal/storage"
	"github.com/ica-so/etas-portal/internal/view"

	// Components register themselves at init time.
	_ "github.com/ica-so/etas-portal/components/apply"
	_ "github.com/ica-so/etas-portal/components/document"
	_ "github.com/ica-so/etas-portal/components/home"
	_ "github.com/ica-so/etas-portal/components/lookup"
	_ "github.com/ica-so/etas-portal/components/verify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; stderr is all we have.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Paths.Root, true)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database.ResolvedDSN())
	if err != nil {
		log.Fatalw("database open failed", "err", err)
	}
	defer db.Close()

	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		log.Warnw("geoip disabled", "err", err)
	}
	if err := form.RegisterForms(cfg.Paths.Root); err != nil {
		log.Fatalw("form definitions failed", "err", err)
	}
	view.Init(cfg.Paths.Root)

	mediaDir := mediaDirOrDefault(cfg.Paths.Root, cfg.Storage.MediaDir)
	store := storage.NewFS(mediaDir, cfg.Storage.PublicBase)
	repo := applicant.NewRepository(db)

	exporter := export.New(
		repo,
		raster.New(cfg.Document.RasterScale, raster.NewMediaLoader(mediaDir)),
		document.Options{
			VerificationBase: cfg.Document.VerificationBase,
			PathStyleVerify:  cfg.Document.PathStyleVerify,
			InstitutionCode:  cfg.Document.InstitutionCode,
		},
		time.Duration(cfg.Document.ExportTimeoutSec)*time.Second,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go exporter.Blobs.Run(ctx)

	app := &component.App{
		Cfg:      cfg,
		Repo:     repo,
		Store:    store,
		Exporter: exporter,
	}

	r := chi.NewRouter()
	component.MountAll(app, r)

	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/media/*", http.StripPrefix("/media/",
		http.FileServer(http.Dir(mediaDir))))

	var handler http.Handler = r
	handler = middleware.RequestLog(handler)
	handler = middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, handler)
	handler = middleware.Security(handler)
	handler = requestinfo.Enrich(handler)

	srv := server.New(cfg.HTTP.ListenAddr, handler)

	go func() {
		log.Infow("etas portal listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("http server failed", "err", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnw("shutdown incomplete", "err", err)
	}
}

// mediaDirOrDefault keeps relative media paths anchored at the repo root.
func mediaDirOrDefault(root, mediaDir string) string {
	if filepath.IsAbs(mediaDir) {
		return mediaDir
	}
	return filepath.Join(root, mediaDir)
}
