package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hiring-management-api/internal/backend"
	"hiring-management-api/internal/middleware"
	"hiring-management-api/internal/store"
)

type Handler struct {
	store   *store.Store
	backend *backend.Client
	secret  string
	log     *zap.Logger
}

func New(st *store.Store, be *backend.Client, secret string, log *zap.Logger) *Handler {
	return &Handler{store: st, backend: be, secret: secret, log: log}
}

// Routes wires every endpoint. Auth endpoints are rate limited; everything
// else sits behind the JWT guard and the idempotency replay filter.
func (h *Handler) Routes(r *gin.Engine, rl *middleware.RateLimiter) {
	authGroup := r.Group("/auth", middleware.RateLimit(rl))
	{
		authGroup.POST("/login/initiate", h.InitiateLogin)
		authGroup.POST("/callback", h.Callback)
		authGroup.POST("/refresh", h.Refresh)
	}
	r.POST("/auth/logout", middleware.Auth(h.secret), h.Logout)

	private := r.Group("/", middleware.Auth(h.secret), middleware.Idempotency(h.store, h.log))
	{
		private.GET("/users", h.ListUsers)

		private.GET("/clients", h.ListClients)
		private.POST("/clients", h.CreateClient)
		private.GET("/campaigns", h.ListCampaigns)
		private.POST("/campaigns", h.CreateCampaign)
		private.POST("/campaigns/:id/match", h.MatchResumes)

		private.GET("/candidates", h.ListCandidates)
		private.GET("/candidates/:id", h.GetCandidate)
		private.POST("/candidates", h.CreateCandidate)
		private.POST("/candidates/import", h.ImportCandidates)

		private.POST("/panels", h.SavePanel)
		private.PUT("/sessions/:id/details", h.SaveDetails)
		private.GET("/sessions/:id/slots", h.FetchSlots)

		private.GET("/interviews/rounds", h.ListRounds)
		private.POST("/interviews/rounds", h.AddRound)
		private.DELETE("/interviews/rounds/:id", h.RemoveRound)
		private.PATCH("/interviews/rounds/:id", h.RenameRound)
		private.PUT("/interviews/rounds/:id/slot", h.SelectSlot)
		private.POST("/interviews/rounds/:id/notify", h.NotifyCandidate)
		private.GET("/interviews/schema", h.GetSchema)
		private.PUT("/interviews/schema", h.SaveSchema)

		private.GET("/events/:sessionID", h.TrackEvent)
		private.POST("/events/:sessionID/reschedule", h.RescheduleEvent)
		private.POST("/events/:sessionID/replace-panelist", h.ReplacePanelist)
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

// upstreamFail maps a backend call failure to 502 with the upstream's own
// message when it gave one.
func upstreamFail(c *gin.Context, err error) {
	var be *backend.Error
	if errors.As(err, &be) {
		fail(c, http.StatusBadGateway, be.Message)
		return
	}
	fail(c, http.StatusBadGateway, "scheduling service is unavailable")
}
