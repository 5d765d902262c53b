package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"github.com/ring2park-microservices/users-service/internal/command"
	"github.com/ring2park-microservices/users-service/internal/cqrs"
	"github.com/ring2park-microservices/users-service/internal/events"
	"github.com/ring2park-microservices/users-service/internal/handler"
	"github.com/ring2park-microservices/users-service/internal/idgen"
	"github.com/ring2park-microservices/users-service/internal/middleware"
	"github.com/ring2park-microservices/users-service/internal/query"
	redisclient "github.com/ring2park-microservices/users-service/internal/redis"
	"github.com/ring2park-microservices/users-service/internal/repository"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage. An empty DATABASE_URL selects the embedded in-memory
	// directory, matching how the upstream system ran against an embedded
	// database in development.
	var dir repository.Directory
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		pg := repository.NewPostgresDirectory(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}
		dir = pg
	} else {
		log.Println("DATABASE_URL not set, using embedded in-memory directory")
		dir = repository.NewMemoryDirectory()
	}

	// Redis backs the read model cache and the peer event stream. Optional:
	// REDIS_ADDR=off runs without either.
	instanceID := getEnv("INSTANCE_ID", hostname())
	var redis *redisclient.Client
	var publisher *events.Publisher
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	if redisAddr != "off" {
		var err error
		redis, err = redisclient.NewClient(redisAddr, "", 0)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
		publisher = events.NewPublisher(redis.Client, instanceID)
	}

	// Id generation continues from the highest id already in the store.
	maxID, err := dir.MaxID(ctx)
	if err != nil {
		log.Fatalf("Failed to read max account id: %v", err)
	}
	ids := idgen.NewGenerator(maxID + 1)

	var readRepo *repository.AccountReadRepository
	if redis != nil {
		readRepo = repository.NewAccountReadRepository(dir, redis.Client)
	} else {
		readRepo = repository.NewAccountReadRepository(dir, nil)
	}

	commandSvc := command.NewAccountCommandService(dir, readRepo, ids, publisher)
	querySvc := query.NewDirectoryQueryService(readRepo)

	if err := seedDemoAccounts(ctx, dir, commandSvc); err != nil {
		log.Fatalf("Failed to seed demo accounts: %v", err)
	}

	count, err := dir.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count accounts: %v", err)
	}
	log.Printf("Directory has %d users", count)

	// Peer instances announce mutations on the user events stream; consume
	// them to keep the local read model coherent.
	if redis != nil {
		go func() {
			subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
				Group:    "users-service-group",
				Consumer: instanceID,
				Origin:   instanceID,
				Handler:  commandSvc.HandleUserEvent,
			})
			if err := subscriber.Start(ctx); err != nil {
				log.Printf("Subscriber stopped: %v", err)
			}
		}()
	}

	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	directoryHandler := handler.NewDirectoryHandler(querySvc)
	directoryHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	port := getEnv("PORT", "8082")
	log.Printf("Users service starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedDemoAccounts populates an empty directory with the demo users the
// upstream system shipped in its seed script.
func seedDemoAccounts(ctx context.Context, dir repository.Directory, commands *command.AccountCommandService) error {
	count, err := dir.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []cqrs.CreateAccountCommand{
		{Username: "walter", Password: "parking1", Name: "Walter Perez", Email: "walter@ring2park.com", Mobile: "07700900001", AcceptTerms: true},
		{Username: "marcia", Password: "parking2", Name: "Marcia Jones", Email: "marcia@ring2park.com", Mobile: "07700900002", AcceptTerms: true},
		{Username: "rodney", Password: "parking3", Name: "Rodney Smith", Email: "rodney@ring2park.com", Mobile: "07700900003", AcceptTerms: true},
		{Username: "sandra", Password: "parking4", Name: "Sandra Bloom", Email: "sandra@ring2park.com", Mobile: "07700900004", AcceptTerms: true},
	}
	for _, cmd := range demo {
		if _, err := commands.CreateAccount(ctx, cmd); err != nil {
			return err
		}
	}
	log.Printf("Seeded %d demo accounts", len(demo))
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "users-service-1"
	}
	return name
}
