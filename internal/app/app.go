package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/handlers"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/convert"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/drive"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/excel"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/pdf"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/pdfco"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/scheduler"
	"github.com/Hamdankim/pelangi-drive-be/internal/services/upload"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Conversion
	Extractor *pdf.Extractor
	Writer    *excel.Writer
	PDFCo     *pdfco.Client
	Converter *convert.Service

	// Storage
	Credentials *drive.Credentials
	Storage     interfaces.FileStorage

	// Upload pipeline and scratch maintenance
	Uploads   *upload.Service
	Scheduler *scheduler.Service
	Janitor   *scheduler.Janitor

	// HTTP handlers
	Responder     *handlers.Responder
	APIHandler    *handlers.APIHandler
	UploadHandler *handlers.UploadHandler
	FilesHandler  *handlers.FilesHandler
}

// New initializes the application with all dependencies. A storage backend
// that cannot be built does not prevent startup; its calls fail instead.
func New(ctx context.Context, cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.initConversion()
	app.initStorage(ctx)

	app.Uploads = upload.NewService(app.Converter, app.Storage, app.Extractor, cfg.Storage.UploadDir, logger)

	if err := app.initJanitor(); err != nil {
		return nil, fmt.Errorf("failed to initialize janitor: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("environment", cfg.Environment).
		Str("upload_dir", cfg.Storage.UploadDir).
		Str("root_folder", app.Storage.RootFolderID()).
		Bool("pdfco_configured", cfg.PDFCo.APIKey != "").
		Msg("Application initialized")

	return app, nil
}

func (a *App) initConversion() {
	a.Extractor = pdf.NewExtractor(a.Logger)
	a.Writer = excel.NewWriter(a.Logger)
	a.PDFCo = pdfco.NewClient(a.Config.PDFCo.APIKey,
		pdfco.WithBaseURL(a.Config.PDFCo.BaseURL),
		pdfco.WithTimeout(common.ParseDuration(a.Config.PDFCo.Timeout, pdfco.DefaultTimeout)),
		pdfco.WithRateLimit(a.Config.PDFCo.RateLimit),
		pdfco.WithLogger(a.Logger),
	)
	a.Converter = convert.NewService(a.Extractor, a.Writer, a.PDFCo, a.Logger)
}

func (a *App) initStorage(ctx context.Context) {
	a.Credentials = drive.NewCredentials(a.Config.Drive, a.Logger)

	svc, err := drive.NewService(ctx, a.Credentials, a.Config.Drive.RootFolderID, a.Logger)
	if err != nil {
		a.Logger.Warn().
			Err(err).
			Msg("Drive client unavailable, storage requests will fail until credentials are fixed")
		a.Storage = drive.NewUnavailable(a.Config.Drive.RootFolderID, err)
		return
	}
	a.Storage = svc
}

func (a *App) initJanitor() error {
	a.Scheduler = scheduler.NewService(a.Logger)
	if !a.Config.Janitor.Enabled {
		return nil
	}

	maxAge := common.ParseDuration(a.Config.Janitor.MaxAge, 6*time.Hour)
	a.Janitor = scheduler.NewJanitor(a.Config.Storage.UploadDir, maxAge, a.Logger)
	if err := a.Scheduler.RegisterJob(scheduler.JanitorJobName, a.Config.Janitor.Schedule, a.Janitor.Run); err != nil {
		return err
	}
	return a.Scheduler.Start()
}

func (a *App) initHandlers() {
	a.Responder = handlers.NewResponder(a.Config.Server.DebugErrors, a.Logger)
	a.APIHandler = handlers.NewAPIHandler(a.Credentials, a.Responder, a.Logger)
	a.UploadHandler = handlers.NewUploadHandler(a.Uploads, a.Config.MaxUploadBytes(), a.Responder, a.Logger)
	a.FilesHandler = handlers.NewFilesHandler(a.Storage, a.Responder, a.Logger)
}

// Close stops background jobs.
func (a *App) Close() error {
	if a.Scheduler != nil {
		if err := a.Scheduler.Stop(); err != nil {
			return fmt.Errorf("failed to stop scheduler: %w", err)
		}
	}
	return nil
}
