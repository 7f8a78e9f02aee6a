package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/dedupe"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/flowengine"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/gateway"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/core/tenant"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/handlers"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/repositories"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/modules/atendimento/services"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/config"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/database"
	"github.com/oclaytonaraujos/amplie-atendimento-be/internal/shared/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Printf("🚀 Starting atendimento-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	contatoRepo := repositories.NewContatoRepo(db.GORM)
	conversaRepo := repositories.NewConversaRepo(db.GORM)
	mensagemRepo := repositories.NewMensagemRepo(db.GORM)
	profileRepo := repositories.NewProfileRepo(db.GORM)
	sessionRepo := repositories.NewChatbotSessionRepo(db.GORM)

	// Init tenant resolver (maps gateway instances to companies)
	tenantResolver := tenant.NewResolver(db.DB)

	// Init WhatsApp gateway service
	gatewayService := gateway.NewService()

	// Init flow engine client (n8n webhook)
	flowClient := flowengine.NewClient(cfg.ChatbotWebhookURL)
	if cfg.ChatbotWebhookURL == "" {
		log.Printf("⚠️  CHATBOT_WEBHOOK_URL not configured, chatbot triggers disabled")
	}

	// Dedup cache for redelivered gateway events
	dedupeCache := dedupe.New(10 * time.Minute)

	// Init services
	distributionService := services.NewDistributionService(conversaRepo, profileRepo)
	chatbotService := services.NewChatbotService(sessionRepo, flowClient)
	webhookService := services.NewWebhookService(contatoRepo, conversaRepo, mensagemRepo, tenantResolver, distributionService, chatbotService, dedupeCache)
	messageService := services.NewMessageService(conversaRepo, contatoRepo, mensagemRepo, tenantResolver, gatewayService)

	// Pending-queue sweeper: re-runs distribution over queued conversations
	sweeper := services.NewFilaSweeper(conversaRepo, distributionService)
	if err := sweeper.Start(cfg.RequeueInterval); err != nil {
		log.Fatalf("Failed to start fila sweeper: %v", err)
	}
	defer sweeper.Stop()

	// Init handlers
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	distributionHandler := handlers.NewDistributionHandler(distributionService)
	messageHandler := handlers.NewMessageHandler(messageService)
	sessionHandler := handlers.NewSessionHandler(chatbotService)
	presenceHandler := handlers.NewPresenceHandler(profileRepo)
	healthHandler := handlers.NewHealthHandler(gatewayService)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "Amplie Atendimento API",
	})

	// Middleware
	app.Use(cors.New())

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Webhook route (Evolution API)
	app.Post("/webhooks/evolution", webhookHandler.ReceiveWebhook)

	// Distribution route
	app.Post("/distribuicao", distributionHandler.Distribute)

	// Outbound message route
	app.Post("/mensagens/enviar", messageHandler.EnviarMensagem)

	// Chatbot session callback (flow engine)
	app.Post("/chatbot/sessoes", sessionHandler.AtualizarSessao)

	// Agent presence heartbeat
	app.Post("/presenca", presenceHandler.Heartbeat)

	log.Printf("✅ atendimento-api running at :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
