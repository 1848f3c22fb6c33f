// Package httpapi exposes the workflow engine over JSON/HTTP.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/folio/internal/service"
	"github.com/gin-gonic/gin"
)

// ActorHeader carries the acting user's ID. Identity is asserted by the
// gateway in front of this server.
const ActorHeader = "X-Actor-ID"

const actorKey = "folio.actor"

// Services groups what the handlers call into.
type Services struct {
	Users       service.UserService
	Submissions service.SubmissionService
	Workflow    service.WorkflowService
	Tracker     service.TrackerService
}

type Server struct {
	svc    Services
	logger *slog.Logger
}

func New(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Router builds the gin engine with every route mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authed := api.Group("")
	authed.Use(requireActor())
	{
		authed.POST("/submissions", s.createSubmission)
		authed.GET("/submissions", s.listSubmissions)
		authed.GET("/submissions/:ref", s.getSubmission)
		authed.PATCH("/submissions/:ref", s.reviseSubmission)
		authed.GET("/submissions/:ref/history", s.submissionHistory)
		authed.POST("/submissions/:ref/transitions", s.transition)
		authed.PUT("/submissions/:ref/reviewers", s.assignReviewers)
		authed.POST("/submissions/:ref/invitation", s.respondInvitation)
		authed.POST("/submissions/:ref/reviews", s.submitReview)
		authed.POST("/submissions/:ref/decisions", s.recordDecision)

		authed.GET("/deadlines", s.listDeadlines)
		authed.POST("/deadlines/:id/complete", s.completeDeadline)
		authed.POST("/tick", s.tick)
		authed.GET("/notifications", s.listNotifications)
		authed.GET("/users", s.listUsers)
	}
	return r
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.InfoContext(c.Request.Context(), "http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"actor", c.GetHeader(ActorHeader),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

// requireActor rejects requests without an actor header.
func requireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := c.GetHeader(ActorHeader)
		if actor == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ActorHeader + " header is required", "kind": "UNAUTHENTICATED"})
			c.Abort()
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func actorID(c *gin.Context) string {
	return c.GetString(actorKey)
}
