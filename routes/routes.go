package routes

import (
	"net/http"
	"time"

	"github.com/LovationAdmin/finance-api/handlers"
	"github.com/LovationAdmin/finance-api/middleware"
	"github.com/LovationAdmin/finance-api/services"
	"github.com/LovationAdmin/finance-api/store"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles the service layer shared by every route group.
type Services struct {
	Auth         *services.AuthService
	Accounts     *services.AccountService
	Transactions *services.TransactionService
	Transfers    *services.TransferService
	Rewards      *services.RewardService
	Bonuses      *services.BonusService
	Income       *services.IncomeService
	Insurance    *services.InsuranceService
	Budgets      *services.BudgetService
}

func NewServices(docs store.DocumentStore, users store.UserStore, tokens *utils.TokenIssuer, notifier services.Notifier) *Services {
	income := services.NewIncomeService(docs, notifier)
	bonuses := services.NewBonusService(docs, notifier)
	return &Services{
		Auth:         services.NewAuthService(users, tokens),
		Accounts:     services.NewAccountService(docs),
		Transactions: services.NewTransactionService(docs, income, bonuses),
		Transfers:    services.NewTransferService(docs, notifier),
		Rewards:      services.NewRewardService(docs),
		Bonuses:      bonuses,
		Income:       income,
		Insurance:    services.NewInsuranceService(docs),
		Budgets:      services.NewBudgetService(docs),
	}
}

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.AuthHandler{Auth: svc.Auth}

	rg.POST("/auth/signup", h.Signup)
	rg.POST("/auth/login", h.Login)
}

// SetupUserRoutes sets up protected profile and 2FA routes.
func SetupUserRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.UserHandler{Auth: svc.Auth}

	rg.GET("/user/profile", h.GetProfile)
	rg.POST("/user/2fa/setup", h.SetupTOTP)
	rg.POST("/user/2fa/verify", h.VerifyTOTP)
	rg.POST("/user/2fa/disable", h.DisableTOTP)
}

func SetupAccountRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.AccountHandler{Accounts: svc.Accounts}

	rg.GET("/accounts", h.GetAccounts)
	rg.POST("/accounts", h.CreateAccount)
	rg.GET("/accounts/:id", h.GetAccount)
	rg.PUT("/accounts/:id", h.UpdateAccount)
	rg.DELETE("/accounts/:id", h.DeleteAccount)
	rg.GET("/accounts/:id/summary", h.GetSummary)
	rg.GET("/accounts/:id/history", h.GetHistory)
	rg.GET("/accounts/:id/statement", h.GetStatement)
	rg.GET("/overview", h.GetOverview)
}

func SetupTransactionRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.TransactionHandler{Transactions: svc.Transactions, Transfers: svc.Transfers}

	rg.GET("/transactions", h.GetTransactions)
	rg.POST("/transactions", h.CreateTransaction)
	rg.POST("/transactions/import", h.ImportTransactions)
	rg.PATCH("/transactions/:id", h.UpdateTransaction)
	rg.POST("/transfers", h.CreateTransfer)
}

func SetupRewardRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.RewardHandler{Rewards: svc.Rewards, Bonuses: svc.Bonuses}

	rg.POST("/rewards/best", h.BestCard)
	rg.POST("/rewards/compare", h.CompareCards)

	rg.GET("/bonuses", h.GetBonuses)
	rg.POST("/bonuses", h.CreateBonus)
	rg.GET("/bonuses/alerts", h.GetBonusAlerts)
	rg.PATCH("/bonuses/:id/status", h.UpdateBonusStatus)
}

func SetupIncomeRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.IncomeHandler{Income: svc.Income}

	rg.GET("/income-sources", h.GetSources)
	rg.POST("/income-sources", h.CreateSource)
	rg.POST("/income-sources/match", h.MatchTransaction)
	rg.PUT("/income-sources/:id", h.UpdateSource)
	rg.DELETE("/income-sources/:id", h.DeleteSource)
	rg.GET("/income-sources/:id/summary", h.GetSummary)
}

func SetupInsuranceRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.InsuranceHandler{Insurance: svc.Insurance}

	rg.GET("/insurance/policies", h.GetPolicies)
	rg.POST("/insurance/policies", h.CreatePolicy)
	rg.GET("/insurance/policies/:id", h.GetPolicy)
	rg.PUT("/insurance/policies/:id", h.UpdatePolicy)
	rg.DELETE("/insurance/policies/:id", h.CancelPolicy)

	rg.GET("/insurance/claims", h.GetClaims)
	rg.POST("/insurance/claims", h.CreateClaim)
	rg.POST("/insurance/claims/:id/transition", h.TransitionClaim)
}

func SetupBudgetRoutes(rg *gin.RouterGroup, svc *Services) {
	h := &handlers.BudgetHandler{Budgets: svc.Budgets}

	rg.GET("/budgets", h.GetBudgets)
	rg.POST("/budgets", h.CreateBudget)
	rg.GET("/budgets/usage", h.GetUsage)
	rg.PUT("/budgets/:id", h.UpdateBudget)
	rg.DELETE("/budgets/:id", h.DeleteBudget)

	rg.GET("/goals", h.GetGoals)
	rg.POST("/goals", h.CreateGoal)
	rg.PUT("/goals/:id", h.UpdateGoal)
	rg.DELETE("/goals/:id", h.DeleteGoal)
}

type RouterConfig struct {
	AllowedOrigins []string
	RateLimit      int
	RateWindow     time.Duration
	// Done stops background work owned by the router.
	Done <-chan struct{}
}

// NewRouter wires middleware and every route group onto a new engine.
func NewRouter(svc *Services, ws *handlers.WSHandler, tokens *utils.TokenIssuer, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           24 * time.Hour,
		}))
	}
	router.Use(middleware.RequestLogger())
	if cfg.RateLimit > 0 {
		router.Use(middleware.RateLimiter(cfg.RateLimit, cfg.RateWindow, cfg.Done))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	{
		SetupAuthRoutes(v1, svc)
		v1.GET("/ws", ws.HandleWS)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(tokens))
		{
			SetupUserRoutes(protected, svc)
			SetupAccountRoutes(protected, svc)
			SetupTransactionRoutes(protected, svc)
			SetupRewardRoutes(protected, svc)
			SetupIncomeRoutes(protected, svc)
			SetupInsuranceRoutes(protected, svc)
			SetupBudgetRoutes(protected, svc)
		}
	}

	return router
}
