package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions/cookie"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/folioworks/folio/backend/internal/auth"
	"github.com/folioworks/folio/backend/internal/catalog"
	"github.com/folioworks/folio/backend/internal/comments"
	"github.com/folioworks/folio/backend/internal/config"
	"github.com/folioworks/folio/backend/internal/contact"
	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/database"
	"github.com/folioworks/folio/backend/internal/engagement"
	"github.com/folioworks/folio/backend/internal/gallery"
	"github.com/folioworks/folio/backend/internal/ident"
	"github.com/folioworks/folio/backend/internal/logging"
	"github.com/folioworks/folio/backend/internal/server"
	"github.com/folioworks/folio/backend/internal/session"
)

var (
	cfgFile string
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "folio-api",
		Short: "Folio portfolio and engagement backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("allowed-origins", defaults.GetString("http.allowed_origins"), "Comma-separated CORS origins")
	cmd.PersistentFlags().String("database-driver", defaults.GetString("database.driver"), "Database driver (sqlite, postgres)")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("database-dsn", "", "Postgres connection string")
	cmd.PersistentFlags().String("session-cookie-name", defaults.GetString("session.cookie_name"), "Visitor session cookie name")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("auth.token_ttl_minutes"), "Admin token TTL in minutes")
	cmd.PersistentFlags().Bool("auto-approve-comments", defaults.GetBool("comments.auto_approve"), "Publish comments without review")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Admin token signing secret (overrides env)")
	cmd.PersistentFlags().String("session-secret", "", "Session cookie signing secret (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "http.allowed_origins", "allowed-origins")
	bindFlag(cmd, "database.driver", "database-driver")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "database.dsn", "database-dsn")
	bindFlag(cmd, "session.cookie_name", "session-cookie-name")
	bindFlag(cmd, "auth.token_ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "comments.auto_approve", "auto-approve-comments")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "session.secret", "session-secret")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	idProvider := ident.NewUUIDProvider()

	contentService, err := content.NewService(content.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	engagementService, err := engagement.NewService(engagement.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	approvalPolicy := comments.ApprovalPolicyHoldForReview
	if appConfig.AutoApproveComments {
		approvalPolicy = comments.ApprovalPolicyAutoApprove
	}
	commentService, err := comments.NewService(comments.ServiceConfig{
		Database:       db,
		Clock:          time.Now,
		IDProvider:     idProvider,
		Logger:         logger,
		ApprovalPolicy: approvalPolicy,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	contactService, err := contact.NewService(contact.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	galleryService, err := gallery.NewService(gallery.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: idProvider,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	tokenManager := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "folio-auth",
		Audience:      "folio-admin",
		TokenTTL:      appConfig.TokenTTL,
	})

	sessionStore := cookie.NewStore([]byte(appConfig.SessionSecret))

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Content:           contentService,
		Engagement:        engagementService,
		Comments:          commentService,
		Catalog:           catalogService,
		Contact:           contactService,
		Gallery:           galleryService,
		Credentials:       auth.Credentials{Email: appConfig.AdminEmail, PasswordHash: appConfig.AdminPasswordHash},
		Tokens:            tokenManager,
		SessionStore:      sessionStore,
		SessionCookieName: appConfig.SessionCookieName,
		VisitorProvider:   session.NewUUIDProvider(),
		AllowedOrigins:    appConfig.AllowedOrigins,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
