package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/imgvault/internal/auth"
	"github.com/dmitrijs2005/imgvault/internal/blobstore"
	"github.com/dmitrijs2005/imgvault/internal/cache"
	"github.com/dmitrijs2005/imgvault/internal/common"
	"github.com/dmitrijs2005/imgvault/internal/config"
	"github.com/dmitrijs2005/imgvault/internal/device"
	"github.com/dmitrijs2005/imgvault/internal/docstore"
	"github.com/dmitrijs2005/imgvault/internal/logging"
	"github.com/dmitrijs2005/imgvault/internal/models"
	"github.com/dmitrijs2005/imgvault/internal/repositories/repomanager"
	"github.com/dmitrijs2005/imgvault/internal/services"
	"github.com/dmitrijs2005/imgvault/internal/session"
	"github.com/dmitrijs2005/imgvault/internal/upload"
)

type uploader interface {
	Pick(ctx context.Context) (bool, error)
	Capture(ctx context.Context) (bool, error)
	Clear()
	Queue() []models.PendingImage
	UploadAll(ctx context.Context, userID string) (models.BatchResult, error)
}

type detailActions interface {
	Offers() (download, share bool)
	ViewURL(ctx context.Context, rec models.ImageRecord) (string, error)
	Delete(ctx context.Context, rec models.ImageRecord) error
	Download(ctx context.Context, rec models.ImageRecord) error
	Share(ctx context.Context, rec models.ImageRecord) error
}

type accountActions interface {
	Overview(ctx context.Context, userID string) (models.AccountOverview, error)
	SignOut(ctx context.Context)
}

type App struct {
	log  logging.Logger
	auth auth.Provider
	gate *session.Gate

	credentials services.CredentialService
	listing     *services.ListingService
	detail      detailActions
	uploads     uploader
	account     accountActions

	reader *bufio.Reader
	out    io.Writer

	email    string
	route    session.Route
	selected *models.ImageRecord
	closers  []func() error
}

// openLog opens the JSON log file named by the config.
func openLog(cfg *config.Config) (logging.Logger, io.Closer, error) {
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := logging.NewJSONLogger(f, cfg.LogLevel)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return l, f, nil
}

// openStore opens the document database and applies pending migrations.
func openStore(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	rm := repomanager.NewSQLRepositoryManager(cfg.Dialect())
	db, err := repomanager.Open(ctx, cfg.Dialect(), cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, rm, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	if cfg.BlobBackend == config.BlobBackendLocal {
		return blobstore.NewLocalStore(cfg.LocalBlobRoot)
	}
	return blobstore.NewS3Store(ctx, blobstore.S3Options{
		Region:       cfg.S3Region,
		AccessKey:    cfg.S3RootUser,
		SecretKey:    cfg.S3RootPassword,
		Bucket:       cfg.S3Bucket,
		BaseEndpoint: cfg.S3BaseEndpoint,
	})
}

// Migrate applies the document store schema and exits.
func Migrate(ctx context.Context, cfg *config.Config, w io.Writer) error {
	db, _, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = fmt.Fprintf(w, "%s schema is up to date (%s)\n", common.AppName, cfg.Dialect())
	return err
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log, logFile, err := openLog(cfg)
	if err != nil {
		return nil, err
	}

	db, rm, err := openStore(ctx, cfg)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		_ = logFile.Close()
		return nil, fmt.Errorf("blob storage: %w", err)
	}

	provider := auth.NewLocalProvider(db, rm, auth.Options{
		SecretKey:                    []byte(cfg.SecretKey),
		AccessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		RefreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}, log.With("component", "auth"))
	docs := docstore.NewSQLStore(db, rm)
	localCache := cache.New(cfg.CacheDir, blobs, log.With("component", "cache"))
	notifier := &device.WriterNotifier{W: os.Stdout}

	a := &App{
		log:     log,
		auth:    provider,
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
		listing: services.NewListingService(docs),
	}
	ask := func(ctx context.Context, prompt string) (string, error) {
		return GetSimpleText(a.reader, prompt, a.out)
	}

	a.uploads = upload.New(upload.Deps{
		Permissions: device.TerminalPermissions{PickerDir: cfg.PickerDir, CameraCommand: cfg.CameraCommand},
		Picker:      device.TerminalPicker{Dir: cfg.PickerDir, Ask: ask},
		Camera:      device.CommandCamera{Command: cfg.CameraCommand, OutDir: filepath.Join(localCache.Dir(), "camera")},
		Blobs:       blobs,
		Docs:        docs,
		Notifier:    notifier,
		Logger:      log.With("component", "upload"),
	})
	a.detail = services.NewDetailService(services.DetailDeps{
		Blobs:    blobs,
		Docs:     docs,
		Cache:    localCache,
		Library:  device.DirMediaLibrary{Dir: cfg.MediaLibraryDir},
		Sharer:   device.CommandSharer{Command: cfg.ShareCommand},
		Notifier: notifier,
		Logger:   log.With("component", "detail"),
		Web:      cfg.IsWeb(),
	})
	a.credentials = services.NewCredentialService(provider, docs, log)
	a.account = services.NewAccountService(provider, docs, log, cfg.Platform)

	a.gate = session.NewGate(provider)
	a.route = a.gate.Route()
	a.closers = []func() error{
		func() error { a.gate.Close(); return nil },
		db.Close,
		logFile.Close,
	}

	log.Info(ctx, "shell started", "dialect", cfg.Dialect(), "blob_backend", cfg.BlobBackend, "platform", cfg.Platform)
	return a, nil
}

// Run blocks in the REPL until the user exits, then releases resources.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn(fmt.Sprintf("Welcome to %s (type 'help' for commands)", common.AppName))
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c()
	}
	a.closers = nil
}

func (a *App) isLoggedIn() bool {
	return a.gate.Route() == session.RouteSignedIn
}

// getStatus renders the prompt status and reacts to route changes that
// happened since the last command, e.g. an expired session.
func (a *App) getStatus() string {
	select {
	case r := <-a.gate.Changes():
		if r == session.RouteSignedOut && a.route == session.RouteSignedIn {
			a.forgetUser()
			printlnFn("You are signed out.")
		}
		a.route = r
	default:
	}

	if !a.isLoggedIn() || a.email == "" {
		return ""
	}
	return "(" + a.email + ") "
}

func (a *App) forgetUser() {
	a.email = ""
	a.selected = nil
	a.listing.Reset()
	a.uploads.Clear()
}

// userID returns the signed-in user, refreshing the ID token if needed.
func (a *App) userID(ctx context.Context) (string, bool) {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		a.log.Warn(ctx, "session check failed", "error", err)
		fmt.Fprintln(a.out, err.Error())
		return "", false
	}
	if u == nil {
		fmt.Fprintln(a.out, common.ErrNotSignedIn.Error())
		return "", false
	}
	return u.ID, true
}
