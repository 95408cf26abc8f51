package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/app/commands"
	availabilityapp "staybook/internal/app/handlers/availability"
	bookingapp "staybook/internal/app/handlers/booking"
	favoritesapp "staybook/internal/app/handlers/favorites"
	listingapp "staybook/internal/app/handlers/listings"
	meapp "staybook/internal/app/handlers/me"
	"staybook/internal/app/middleware"
	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/queries"
	authsvc "staybook/internal/app/services/auth"
	"staybook/internal/app/uow"
	"staybook/internal/app/validation"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	outboxworker "staybook/internal/infra/outbox"
	"staybook/internal/infra/security"
	"staybook/internal/infra/storage/memory"
	"staybook/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		ReadyCheck: app.readyCheck,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers   ginserver.Handlers
	worker     *outboxworker.Worker
	readyCheck func(ctx context.Context) error
	mongo      *mongodb.Client
	producer   *kafka.Producer
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	app := application{}

	var (
		uowFactory  uow.Factory
		outboxStore interface {
			appoutbox.Outbox
			outboxworker.Store
		}
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		app.mongo = client
		app.readyCheck = client.Ping
		uowFactory = mongodb.Factory{
			DB:               client.DB,
			ListingsRepo:     mongodb.NewListingRepository(client.DB),
			AvailabilityRepo: mongodb.NewAvailabilityRepository(client.DB),
			BookingRepo:      mongodb.NewBookingRepository(client.DB),
			FavoritesRepo:    mongodb.NewFavoritesRepository(client.DB),
		}
		outboxStore = mongodb.NewOutbox(client.DB)
	default:
		uowFactory = memory.Factory{
			ListingsRepo:     memory.NewListingRepository(),
			AvailabilityRepo: memory.NewAvailabilityRepository(),
			BookingRepo:      memory.NewBookingRepository(),
			FavoritesRepo:    memory.NewFavoritesRepository(),
		}
		outboxStore = memory.NewOutbox()
	}

	// Accounts and sessions stay in memory in both modes for now.
	usersRepo := memory.NewUserRepository()
	sessionStore := memory.NewSessionStore()
	idStore := memory.NewIdempotencyStore(cfg.IdempotencyTTL)

	authService := &authsvc.Service{
		Users:      usersRepo,
		Sessions:   sessionStore,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	var uploader s3.Uploader
	s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		uploader = s3.NoopUploader{}
	} else {
		uploader = s3Client
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: uowFactory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmHostBookingCommand{}.Key(), &bookingapp.ConfirmHostBookingHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, bookingapp.DeclineHostBookingCommand{}.Key(), &bookingapp.DeclineHostBookingHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, listingapp.CreateHostListingCommand{}.Key(), &listingapp.CreateHostListingHandler{
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.UpdateHostListingCommand{}.Key(), &listingapp.UpdateHostListingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, listingapp.PublishHostListingCommand{}.Key(), &listingapp.PublishHostListingHandler{
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.UnpublishHostListingCommand{}.Key(), &listingapp.UnpublishHostListingHandler{
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.SetListingPricingCommand{}.Key(), &listingapp.SetListingPricingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, listingapp.UploadHostListingPhotoCommand{}.Key(), &listingapp.UploadHostListingPhotoHandler{
		Logger:   logger,
		Uploader: uploader,
	})
	commands.RegisterHandler(commandBus, availabilityapp.BlockDatesCommand{}.Key(), &availabilityapp.BlockDatesHandler{
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.ReleaseBlockCommand{}.Key(), &availabilityapp.ReleaseBlockHandler{
		Logger:  logger,
		Outbox:  outboxStore,
		Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, favoritesapp.ToggleFavoriteCommand{}.Key(), &favoritesapp.ToggleFavoriteHandler{Logger: logger})

	queries.RegisterHandler(queryBus, listingapp.SearchCatalogQuery{}.Key(), &listingapp.SearchCatalogHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, listingapp.ListHostListingsQuery{}.Key(), &listingapp.ListHostListingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, listingapp.GetHostListingQuery{}.Key(), &listingapp.GetHostListingHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.QuotePriceQuery{}.Key(), &bookingapp.QuotePriceHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, bookingapp.ListHostBookingsQuery{}.Key(), &bookingapp.ListHostBookingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, meapp.ListGuestBookingsQuery{}.Key(), &meapp.ListGuestBookingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, favoritesapp.ListFavoritesQuery{}.Key(), &favoritesapp.ListFavoritesHandler{UoWFactory: uowFactory, Logger: logger})

	validator := validation.NewStructValidator()
	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Validation(validator),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(uowFactory, nil),
	)
	queryPipeline := middleware.ChainQueries(
		queryBus,
		middleware.QueryValidation(validator),
	)

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		app.producer = producer
		app.worker = &outboxworker.Worker{
			Store:       outboxStore,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			BatchSize:   cfg.OutboxBatchSize,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}
	} else {
		logger.Info("kafka brokers not configured, domain events stay in the outbox")
	}

	app.handlers = ginserver.Handlers{
		Auth:        ginserver.AuthHandler{Service: authService, Logger: logger},
		Booking:     ginserver.BookingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Listing:     ginserver.ListingHandler{Queries: queryPipeline, Logger: logger},
		HostListing: ginserver.HostListingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		HostBooking: ginserver.HostBookingHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		Me:          ginserver.MeHandler{Commands: commandPipeline, Queries: queryPipeline, Logger: logger},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}
	return app, nil
}

func (a application) close(logger *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.mongo.Close(ctx); err != nil {
			logger.Warn("mongo disconnect failed", "error", err)
		}
	}
}
