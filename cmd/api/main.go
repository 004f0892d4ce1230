package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/freelancehub/backend/internal/config"
	"github.com/freelancehub/backend/internal/db"
	"github.com/freelancehub/backend/internal/handlers"
	"github.com/freelancehub/backend/internal/logger"
	"github.com/freelancehub/backend/internal/middleware"
	"github.com/freelancehub/backend/internal/models"
	"github.com/freelancehub/backend/internal/realtime"
	"github.com/freelancehub/backend/internal/services/account"
	"github.com/freelancehub/backend/internal/services/bid"
	"github.com/freelancehub/backend/internal/services/describe"
	"github.com/freelancehub/backend/internal/services/mailer"
	"github.com/freelancehub/backend/internal/services/project"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	zlog, err := logger.New(logger.Config{Development: os.Getenv("APP_ENV") != "production"})
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		zlog.Fatalw("database connect failed", "error", err)
	}

	if err := gdb.AutoMigrate(&models.User{}, &models.Project{}, &models.Bid{}); err != nil {
		zlog.Fatalw("migrate failed", "error", err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		zlog.Fatalw("redis connect failed", "error", err)
	}

	hub := realtime.NewHub(zlog)
	go hub.Run()
	go realtime.Subscribe(context.Background(), rdb, hub, zlog)
	events := &realtime.Publisher{RDB: rdb, Log: zlog}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	accounts := account.NewService(gdb, mail, zlog)
	projects := project.NewService(gdb, zlog)
	bids := bid.NewService(gdb, zlog)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		Accounts:  accounts,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		Log:             zlog,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	projectH := handlers.NewProjectHandler(projects, events)
	bidH := handlers.NewBidHandler(bids, projects, events)
	profileH := handlers.NewProfileHandler(accounts)
	describeH := handlers.NewDescribeHandler(describe.New(cfg.OpenAIKey), zlog)
	watchH := handlers.NewWatchHandler(hub, cfg.JWTSecret)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	api := app.Group("/api")

	// public
	api.Post("/auth/sign-up", authH.SignUp)
	api.Post("/auth/verify", authH.Verify)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(gdb),
	)

	protected.Get("/me", authH.Me)
	protected.Get("/profile", profileH.GetUserType)
	protected.Post("/profile/toggle", profileH.ToggleUserType)

	protected.Post("/projects",
		middleware.RequireRoles("client"),
		projectH.Create,
	)
	protected.Get("/projects", projectH.ListMine)
	protected.Get("/projects/:id", projectH.GetOne)
	protected.Delete("/projects/:id", projectH.Delete)

	protected.Post("/bids",
		middleware.RequireRoles("freelancer"),
		bidH.Place,
	)
	protected.Get("/bids", bidH.ListMyBidProjects)

	protected.Post("/describe", describeH.Generate)

	// websocket feed (auth via query param)
	app.Get("/ws/projects", watchH.Upgrade())

	zlog.Infow("listening", "port", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatalw("server stopped", "error", err)
	}
}
