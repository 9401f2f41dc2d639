package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/web/middlewares"
)

// Endpoint bundles the dependencies shared by all API handlers.
type Endpoint struct {
	Dm       *core.DatabaseManager
	Orc      *core.Orchestrator
	Secret   []byte
	TokenTTL time.Duration

	// OnRegister, when set, is invoked after a successful registration
	// (welcome mail). Failures there never affect the response.
	OnRegister func(account *models.Account)
}

func Register(api *gin.RouterGroup, ep *Endpoint) {
	api.POST("/register", ep.RegisterAccount)
	api.POST("/login", ep.Login)

	api.POST("/upload", ep.Upload)
	api.POST("/analyze/:upload_id", ep.Analyze)
	api.GET("/uploads", ep.ListUploads)

	api.POST("/subscribe", ep.Subscribe)
	api.GET("/subscription/:account_id", ep.GetSubscription)
	api.POST("/cancel_subscription/:id", ep.CancelSubscription)

	api.GET("/reports/analyses", ep.AnalysesReport)

	protected := api.Group("")
	protected.Use(middlewares.Authentication(ep.Secret))
	protected.GET("/me", ep.Me)
}
