package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hirehub/hirehub-backend/internal/config"
	"github.com/hirehub/hirehub-backend/internal/logging"
	"github.com/hirehub/hirehub-backend/internal/media"
	"github.com/hirehub/hirehub-backend/internal/metrics"
	"github.com/hirehub/hirehub-backend/internal/repository/memory"
	miniorepo "github.com/hirehub/hirehub-backend/internal/repository/minio"
	mongorepo "github.com/hirehub/hirehub-backend/internal/repository/mongo"
	"github.com/hirehub/hirehub-backend/internal/repository/ports"
	pgrepo "github.com/hirehub/hirehub-backend/internal/repository/postgres"
	"github.com/hirehub/hirehub-backend/internal/service"
	httptransport "github.com/hirehub/hirehub-backend/internal/transport/http"
	"github.com/hirehub/hirehub-backend/internal/transport/mail"
	"github.com/hirehub/hirehub-backend/internal/util"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users    ports.UserRepository
	profiles ports.ProfileRepository
	otps     ports.OTPRepository
	contacts ports.ContactRepository
	close    func(context.Context) error
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var sink io.Writer
	if cfg.LogstashTCPAddr != "" {
		w, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			return fmt.Errorf("logstash writer: %w", err)
		}
		defer w.Close()
		sink = w
	}
	logger, err := logging.New(cfg.Env, cfg.LogLevel, sink)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := repos.close(closeCtx); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	storage, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	inspector := media.NewInspector(cfg.ImageMaxBytes, cfg.ResumeMaxBytes)
	mailer := mail.NewMailer(newMailTransport(cfg), int(service.OTPValidity/time.Minute))
	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	auth := service.NewAuthService(
		service.NewCredentialStore(repos.users),
		repos.profiles,
		service.NewOTPStore(repos.otps),
		storage,
		inspector,
		mailer,
		tokens,
		service.AuthServiceConfig{
			ProfileBucket:    cfg.MinIOBucketProfile,
			GoogleAudience:   cfg.GoogleAudience,
			AllowAdminSignup: cfg.AllowAdminSignup,
		},
		m,
		logger,
	)
	users := service.NewUserService(repos.users, repos.profiles, storage, inspector, cfg.MinIOBucketResume, logger)
	contacts := service.NewContactService(repos.contacts, mailer, m, logger)

	e := httptransport.NewRouter(httptransport.RouterConfig{
		AllowOrigins: cfg.AllowOrigins,
		Cookies: httptransport.CookieConfig{
			Production: cfg.IsProduction(),
			Domain:     cfg.CookieDomain,
			MaxAge:     cfg.SessionTTL,
		},
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, httptransport.Services{Auth: auth, Users: users, Contacts: contacts}, m, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg config.Config, logger *zap.Logger) (*repositories, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		logger.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))
		return &repositories{
			users:    mongorepo.NewUserRepo(db),
			profiles: mongorepo.NewProfileRepo(db),
			otps:     mongorepo.NewOTPRepo(db),
			contacts: mongorepo.NewContactRepo(db),
			close:    client.Disconnect,
		}, nil
	case config.StorePostgres:
		db, err := pgrepo.New(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pgrepo.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("postgres schema: %w", err)
		}
		logger.Info("connected to postgres")
		return &repositories{
			users:    pgrepo.NewUserRepo(db),
			profiles: pgrepo.NewProfileRepo(db),
			otps:     pgrepo.NewOTPRepo(db),
			contacts: pgrepo.NewContactRepo(db),
			close:    func(context.Context) error { return db.Close() },
		}, nil
	default:
		logger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			users:    store.Users(),
			profiles: store.Profiles(),
			otps:     store.OTPs(),
			contacts: store.Contacts(),
			close:    func(context.Context) error { return nil },
		}, nil
	}
}

// openStorage returns a storage that rejects uploads when MinIO is not
// configured, so the server can still serve logins.
func openStorage(ctx context.Context, cfg config.Config) (*miniorepo.Storage, error) {
	if cfg.MinIOEndpoint == "" {
		return miniorepo.NewStorage(nil, cfg.MinIOPublicURL), nil
	}
	client, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	storage := miniorepo.NewStorage(client, cfg.MinIOPublicURL)
	if err := storage.EnsureBuckets(ctx, cfg.MinIOBucketProfile, cfg.MinIOBucketResume); err != nil {
		return nil, fmt.Errorf("minio buckets: %w", err)
	}
	return storage, nil
}

func newMailTransport(cfg config.Config) mail.Transport {
	if cfg.EmailProvider == config.EmailSMTP {
		return mail.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.SMTPUseTLS)
	}
	return mail.NewSendGridTransport(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
}
