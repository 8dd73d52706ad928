package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/peerfact/peerfact/internal/container"
	handlers "github.com/peerfact/peerfact/internal/interface/http"
	"github.com/peerfact/peerfact/internal/interface/middleware"
	"github.com/peerfact/peerfact/pkg/helpers"
)

// ClaimModule exposes the claim feed, verdicts, and the verification flow.
// Reads are public; anything that writes to the ledger requires a session.

type ClaimModule struct {
	Handler *handlers.ClaimHandler
	JWT     *helpers.JWTManager
}

func NewClaimModule(h *handlers.ClaimHandler, jwt *helpers.JWTManager) *ClaimModule {
	return &ClaimModule{Handler: h, JWT: jwt}
}

func (m *ClaimModule) Register(rg *gin.RouterGroup) {
	readLimiter := middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	searchLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.GET("/claims", readLimiter, m.Handler.List)
	rg.GET("/claims/search", searchLimiter, m.Handler.Search)
	rg.GET("/claims/:id", readLimiter, m.Handler.Get)
	rg.GET("/claims/:id/verdict", readLimiter, m.Handler.Verdict)

	// Protected writes, limited per user so one account cannot flood the
	// ledger or the classifier.
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/claims", m.Handler.Create)
		auth.POST("/claims/:id/verify", m.Handler.Verify)
		auth.POST("/claims/:id/media", m.Handler.UploadMedia)
		auth.POST("/analyze/claim", m.Handler.Analyze)
	}
}
