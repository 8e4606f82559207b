package main // Entry point package

import (
	"context" // background contexts for the worker goroutines
	"log"     // Logging library
	"time"    // timezone loading

	"github.com/joho/godotenv"    // loads a local .env file in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/lromero/appointment-assistant/internal/config"     // Internal config loader
	"github.com/lromero/appointment-assistant/internal/database"   // MySQL connection
	"github.com/lromero/appointment-assistant/internal/handler"    // HTTP handlers
	"github.com/lromero/appointment-assistant/internal/mailer"     // SMTP notifications
	"github.com/lromero/appointment-assistant/internal/middleware" // rate limit / cache middleware
	"github.com/lromero/appointment-assistant/internal/nlu"        // free-text extraction
	"github.com/lromero/appointment-assistant/internal/queue"      // reminder consumer
	"github.com/lromero/appointment-assistant/internal/repository" // DB repositories
	"github.com/lromero/appointment-assistant/internal/router"     // Internal router setup
	"github.com/lromero/appointment-assistant/internal/scheduler"  // reminder dispatcher
	queue_publisher "github.com/lromero/appointment-assistant/internal/service"
	"github.com/lromero/appointment-assistant/internal/telegram" // bot API client
)

func main() {
	_ = godotenv.Load() // optional .env for local development
	cfg := config.Load()

	e := router.New()
	router.RegisterRoutes(e) // demo endpoints, always on

	if cfg.AssistantEnabled() {
		wireAssistant(e, cfg)
	} else {
		log.Printf("TELEGRAM_BOT_TOKEN not set; assistant disabled, serving demo endpoints only")
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err)
	}
}

// wireAssistant connects storage, broker and Telegram and registers the
// assistant's routes.  Any hard dependency that cannot be satisfied is fatal
// here, before the server starts taking webhook traffic.
func wireAssistant(e *echo.Echo, cfg config.Config) {
	cfg.RequireDB()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; drafts, rate limiting and response caching disabled")
	}

	chats := repository.NewChatRepo(db)
	events := repository.NewEventRepo(db)
	reminders := repository.NewReminderRepo(db)
	drafts := repository.NewContextStore(rdb, config.ContextTTL())

	parser := nlu.New(loc)
	tg := telegram.New(cfg.TelegramBotToken)
	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom, cfg.EmailToDefault)

	wh := handler.NewWebhookHandler(cfg, chats, events, reminders, drafts, parser, tg, mail, loc)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterWebhook(e, wh, limiter)

	if cfg.TaskTokenSecret != "" {
		router.RegisterTasks(e, handler.NewTaskHandler(tg, mail), cfg.TaskTokenSecret)
	} else {
		log.Printf("TASK_TOKEN_SECRET not set; task callback endpoint disabled")
	}

	if cfg.AdminEnabled() {
		ah := handler.NewAdminHandler(cfg, chats, events, reminders)
		cacheMw := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
		router.RegisterAdmin(e, ah, cfg.AdminUser, cfg.AdminPassHash, cacheMw)
	}

	consumer := &queue.ReminderConsumer{
		URL:      queue_publisher.BrokerURL(),
		Queue:    queue_publisher.ReminderQueueName,
		Telegram: tg,
		Mailer:   mail,
	}
	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			log.Printf("reminder-consumer stopped: %v", err)
		}
	}()

	dispatcher := &scheduler.Dispatcher{Reminders: reminders, Events: events, Loc: loc}
	go dispatcher.Run(context.Background())
}
