package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/category"
	"github.com/wichananm65/shop-assistant-backend/internal/chat"
	"github.com/wichananm65/shop-assistant-backend/internal/chatbot"
	"github.com/wichananm65/shop-assistant-backend/internal/config"
	"github.com/wichananm65/shop-assistant-backend/internal/database"
	"github.com/wichananm65/shop-assistant-backend/internal/logger"
	"github.com/wichananm65/shop-assistant-backend/internal/middleware"
	"github.com/wichananm65/shop-assistant-backend/internal/product"
	"github.com/wichananm65/shop-assistant-backend/internal/session"
	"github.com/wichananm65/shop-assistant-backend/internal/user"
)

type repositories struct {
	products product.Repository
	users    user.Repository
	chats    chat.Repository
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, db := mustOpenRepositories(ctx, cfg, log)
	if db != nil {
		defer db.Close()
	}
	sessions := mustOpenSessionStore(cfg, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: cfg.IsProduction()})
	setupCORS(app, cfg.CORSOrigins)
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.PingContext(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	productHandler := product.NewHandler(product.NewService(repos.products), log)
	categoryHandler := category.NewHandler(category.NewService(repos.products), log)
	userHandler := user.NewHandler(
		user.NewService(repos.users),
		sessions,
		user.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		log,
	)

	bot := chatbot.New(repos.products)
	chatLimiter := middleware.NewRateLimiter(cfg.ChatMessagesPerMin)
	go chatLimiter.RunSweeper(ctx, time.Minute, 10*time.Minute)
	chatHandler := chat.NewHandler(chat.NewService(repos.chats, bot), chatLimiter.Handler(userKey, log), log)

	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	userHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		},
	}))
	app.Use(session.Require(sessions, log))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	chatHandler.RegisterProtectedRoutes(app)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

// mustOpenRepositories uses Postgres when DATABASE_URL is set and in-memory
// storage otherwise. The returned *sql.DB is nil in memory mode.
func mustOpenRepositories(ctx context.Context, cfg config.Config, log *zap.Logger) (repositories, *sql.DB) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory storage")
		return repositories{
			products: product.NewInMemoryRepository(nil),
			users:    user.NewInMemoryRepository(nil),
			chats:    chat.NewInMemoryRepository(),
		}, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("migrate database", zap.Error(err))
	}
	return repositories{
		products: product.NewPostgresRepository(db),
		users:    user.NewPostgresRepository(db),
		chats:    chat.NewPostgresRepository(db),
	}, db
}

func mustOpenSessionStore(cfg config.Config, log *zap.Logger) session.Store {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(cfg.SessionTTL)
	}
	store, err := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		log.Fatal("connect redis", zap.Error(err))
	}
	log.Info("using redis session store", zap.String("addr", cfg.RedisAddr))
	return store
}

// userKey rate limits per authenticated user, falling back to the client IP.
func userKey(c *fiber.Ctx) string {
	if s, ok := session.FromCtx(c); ok {
		return "user:" + strconv.Itoa(s.UserID)
	}
	return c.IP()
}
