package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/mentark/mentark-backend/internal/clients/redis"
  "github.com/mentark/mentark-backend/internal/clients/twilio"
  "github.com/mentark/mentark-backend/internal/db"
  "github.com/mentark/mentark-backend/internal/handlers"
  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/repos"
  "github.com/mentark/mentark-backend/internal/server"
  "github.com/mentark/mentark-backend/internal/services"
  "github.com/mentark/mentark-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("Postgres init failed", "error", err)
    os.Exit(1)
  }
  if err := postgresService.AutoMigrateAll(); err != nil {
    log.Error("Postgres auto migration failed", "error", err)
    os.Exit(1)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  studentRepo := repos.NewStudentRepo(thePG, log)
  arkRepo := repos.NewArkRepo(thePG, log)
  arkMilestoneRepo := repos.NewArkMilestoneRepo(thePG, log)
  arkResourceRepo := repos.NewArkResourceRepo(thePG, log)
  milestoneResourceRepo := repos.NewMilestoneResourceRepo(thePG, log)
  arkTimelineTaskRepo := repos.NewArkTimelineTaskRepo(thePG, log)
  arkReminderRepo := repos.NewArkReminderRepo(thePG, log)
  arkTemplateRepo := repos.NewArkTemplateRepo(thePG, log)
  aiCallLogRepo := repos.NewAICallLogRepo(thePG, log)

  // Optional collaborators: a missing key or unreachable dependency only
  // disables the enrichment it powers.
  log.Info("Setting up clients from main...")
  searchCache, err := redis.New(log)
  if err != nil {
    log.Warn("Could not init search cache, searches will be uncached", "error", err)
    searchCache = nil
  }
  smsClient, err := twilio.NewFromEnv(log)
  if err != nil {
    log.Warn("Could not init Twilio client, SMS reminders disabled", "error", err)
    smsClient = nil
  }

  // Services
  log.Info("Setting up Services from main...")
  openaiClient, err := services.NewOpenAIClient(log)
  if err != nil {
    log.Warn("Could not init OpenAIClient, roadmap generation disabled", "error", err)
    openaiClient = nil
  }
  searchService := services.NewResourceSearchService(log, searchCache)
  reminderService := services.NewReminderService(log, arkReminderRepo, studentRepo, smsClient)
  reminderInterval := utils.GetEnvAsInt("REMINDER_INTERVAL_SECONDS", 60, log)
  reminderService.StartWorker(context.Background(), time.Duration(reminderInterval)*time.Second)
  arkGenService := services.NewArkGenerationService(
    thePG,
    log,
    arkRepo,
    arkMilestoneRepo,
    arkResourceRepo,
    milestoneResourceRepo,
    arkTimelineTaskRepo,
    arkTemplateRepo,
    studentRepo,
    aiCallLogRepo,
    openaiClient,
    searchService,
    reminderService,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  arkHandler := handlers.NewArkHandler(log, arkGenService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    ArkHandler: arkHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  log.Info("Server listening", "port", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
