package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/research-portal-backend/api"
	"github.com/rpupo63/research-portal-backend/config"
	"github.com/rpupo63/research-portal-backend/database"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	ctx := context.Background()

	// AWS is only configured when something needs it
	var awsCfg *aws.Config
	loadAWS := func() aws.Config {
		if awsCfg == nil {
			cfg, err := awsconfig.LoadDefaultConfig(ctx)
			if err != nil {
				log.Fatal().Err(err).Msg("Error loading AWS configuration")
			}
			awsCfg = &cfg
		}
		return *awsCfg
	}

	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		if err := config.LoadParameters(ctx, ssm.NewFromConfig(loadAWS()), path, c); err != nil {
			log.Fatal().Err(err).Msg("Error loading parameters from SSM")
		}
		log.Info().Str("path", path).Msg("Loaded parameters from SSM")
	}

	connStr, err := connectionString(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported database configuration")
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	replicas := config.GetList(c, "DB_REPLICA_URLS")
	if err := database.UseReadReplicas(db, replicas, func(dsn string) gorm.Dialector {
		return postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	}); err != nil {
		log.Fatal().Err(err).Msg("Error registering read replicas")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if models.GenerateColumnMismatchReport(db) > 0 {
			os.Exit(1)
		}
		return
	}

	if err := currentDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}
	if config.GetBool(c, "SEED_DEPARTMENTS", true) {
		if err := database.SeedDepartments(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Error seeding departments")
		}
	}

	cache, err := services.NewPageCache(config.GetString(c, "REDIS_URL", ""), config.GetSeconds(c, "CACHE_TTL_SECONDS", 5*time.Minute))
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to the page cache")
	}
	defer cache.Close()

	serviceOpts := []services.ProjectServiceOption{services.WithPageCache(cache)}
	serverOpts := []api.ServerOption{api.WithHealthCheck("cache", cache.Ping)}

	if meiliURL := config.GetString(c, "MEILI_URL", ""); meiliURL != "" {
		serviceOpts = append(serviceOpts, services.WithProductIndex(
			services.NewMeiliProductIndex(meiliURL, config.GetString(c, "MEILI_API_KEY", "")),
		))
	}

	if apiKey := config.GetString(c, "RESEND_API_KEY", ""); apiKey != "" {
		mailer, err := services.NewResendMailer(apiKey, config.GetString(c, "RESEND_FROM_EMAIL", ""), "")
		if err != nil {
			log.Fatal().Err(err).Msg("Error configuring email")
		}
		serviceOpts = append(serviceOpts, services.WithReviewNotifier(
			services.NewEmailReviewNotifier(mailer, config.GetString(c, "PORTAL_URL", "")),
		))
	}

	if bucket := config.GetString(c, "MEDIA_BUCKET", ""); bucket != "" {
		signer := services.NewMediaSigner(s3.NewFromConfig(loadAWS()), bucket, config.GetString(c, "MEDIA_PUBLIC_BASE_URL", ""))
		serverOpts = append(serverOpts, api.WithMediaSigner(signer))
	}

	serverOpts = append(serverOpts, api.WithProjectService(services.NewProjectService(currentDB, serviceOpts...)))

	errChannel := make(chan error)

	server, err := api.NewServer(currentDB, c, serverOpts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetSeconds(c, "SHUTDOWN_TIMEOUT_SECONDS", 30*time.Second))
}

// connectionString builds the postgres DSN from DB_TYPE. "supa" assembles it from the
// SUPABASE_DB_* settings; "url" takes DATABASE_URL as is.
func connectionString(c map[string]string) (string, error) {
	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", "url"))
	switch dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "url":
		dsn := config.GetString(c, "DATABASE_URL", "")
		if dsn == "" {
			return "", fmt.Errorf("DATABASE_URL is required when DB_TYPE is url")
		}
		return dsn, nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// setupLogging reads LOG_LEVEL and LOG_FORMAT ("console" for humans, anything else JSON).
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if config.GetString(c, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
