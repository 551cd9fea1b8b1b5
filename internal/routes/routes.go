package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SG2407/Aarogyan-BE-Project/internal/config"
	"github.com/SG2407/Aarogyan-BE-Project/internal/handlers"
	"github.com/SG2407/Aarogyan-BE-Project/internal/middleware"
	"github.com/SG2407/Aarogyan-BE-Project/internal/repository"
	"github.com/SG2407/Aarogyan-BE-Project/internal/services"
	assistantws "github.com/SG2407/Aarogyan-BE-Project/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewMedicalProfileRepository(db)
	subRecordRepo := repository.NewSubRecordRepository(db)
	sessionRepo := repository.NewOnboardingSessionRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	llmClient := services.NewOpenRouterClient(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	storageService := services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	textExtractor := services.NewLazyVisionTextExtractor()

	onboardingService := services.NewOnboardingService(profileRepo, sessionRepo, subRecordRepo)
	profileService := services.NewProfileService(profileRepo, subRecordRepo)
	assistantService := services.NewAssistantService(chatRepo, messageRepo, userRepo, llmClient)
	documentService := services.NewDocumentService(documentRepo, storageService, textExtractor, llmClient)

	assistantHub := assistantws.NewHub()
	go assistantHub.Run()

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService)
	profileHandler := handlers.NewProfileHandler(profileService)
	assistantHandler := handlers.NewAssistantHandler(assistantService, assistantHub, cfg.JWTSecret)
	documentHandler := handlers.NewDocumentHandler(documentService)

	api := app.Group("/api")

	auth := api.Group("/v1/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Put("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.UpdateMe)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	onboarding := protected.Group("/onboarding")
	onboarding.Get("/profile", onboardingHandler.GetProfile)
	onboarding.Post("/start", onboardingHandler.Start)
	onboarding.Post("/answer", onboardingHandler.Answer)
	onboarding.Post("/skip", onboardingHandler.Skip)
	onboarding.Post("/end", onboardingHandler.End)

	profile := protected.Group("/profile")
	profile.Put("", profileHandler.Edit)
	profile.Post("/conditions", profileHandler.AddCondition)
	profile.Delete("/conditions/:id", profileHandler.DeleteCondition)
	profile.Post("/medications", profileHandler.AddMedication)
	profile.Delete("/medications/:id", profileHandler.DeleteMedication)
	profile.Post("/allergies", profileHandler.AddAllergy)
	profile.Delete("/allergies/:id", profileHandler.DeleteAllergy)
	profile.Post("/surgeries", profileHandler.AddSurgery)
	profile.Delete("/surgeries/:id", profileHandler.DeleteSurgery)
	profile.Post("/family-history", profileHandler.AddFamilyHistory)
	profile.Delete("/family-history/:id", profileHandler.DeleteFamilyHistory)
	profile.Post("/lab-values", profileHandler.AddLabValue)
	profile.Delete("/lab-values/:id", profileHandler.DeleteLabValue)

	chats := protected.Group("/chats")
	chats.Post("", assistantHandler.CreateChat)
	chats.Get("", assistantHandler.ListChats)
	chats.Delete("/:id", assistantHandler.DeleteChat)
	chats.Get("/:id/messages", assistantHandler.GetMessages)
	chats.Post("/:id/messages", assistantHandler.SendMessage)

	documents := protected.Group("/documents")
	documents.Post("/upload", documentHandler.Upload)
	documents.Get("", documentHandler.List)
	documents.Get("/:id", documentHandler.Get)
	documents.Delete("/:id", documentHandler.Delete)

	api.Use("/v1/ws", assistantHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(assistantHandler.HandleWebSocket))
}
