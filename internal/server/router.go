package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/folioworks/folio/backend/internal/auth"
	"github.com/folioworks/folio/backend/internal/catalog"
	"github.com/folioworks/folio/backend/internal/comments"
	"github.com/folioworks/folio/backend/internal/contact"
	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/engagement"
	"github.com/folioworks/folio/backend/internal/faults"
	"github.com/folioworks/folio/backend/internal/gallery"
	"github.com/folioworks/folio/backend/internal/session"
)

var (
	errMissingContentService    = errors.New("content service dependency required")
	errMissingEngagementService = errors.New("engagement service dependency required")
	errMissingCommentService    = errors.New("comment service dependency required")
	errMissingCatalogService    = errors.New("catalog service dependency required")
	errMissingContactService    = errors.New("contact service dependency required")
	errMissingGalleryService    = errors.New("gallery service dependency required")
	errMissingTokenManager      = errors.New("token manager dependency required")
	errMissingSessionStore      = errors.New("session store dependency required")
	errMissingVisitorProvider   = errors.New("visitor provider dependency required")
	errInvalidAuthorization     = errors.New("authorization header missing or invalid")
)

// TokenManager issues and validates admin bearer tokens.
type TokenManager interface {
	Issue(subject string) (string, int64, error)
	Validate(token string) (string, error)
}

// Dependencies collects everything the HTTP layer needs.
type Dependencies struct {
	Content           *content.Service
	Engagement        *engagement.Service
	Comments          *comments.Service
	Catalog           *catalog.Service
	Contact           *contact.Service
	Gallery           *gallery.Service
	Credentials       auth.Credentials
	Tokens            TokenManager
	SessionStore      sessions.Store
	SessionCookieName string
	VisitorProvider   session.Provider
	AllowedOrigins    []string
	Logger            *zap.Logger
}

// NewHTTPHandler wires middleware and routes and returns the root handler.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	switch {
	case deps.Content == nil:
		return nil, errMissingContentService
	case deps.Engagement == nil:
		return nil, errMissingEngagementService
	case deps.Comments == nil:
		return nil, errMissingCommentService
	case deps.Catalog == nil:
		return nil, errMissingCatalogService
	case deps.Contact == nil:
		return nil, errMissingContactService
	case deps.Gallery == nil:
		return nil, errMissingGalleryService
	case deps.Tokens == nil:
		return nil, errMissingTokenManager
	case deps.SessionStore == nil:
		return nil, errMissingSessionStore
	case deps.VisitorProvider == nil:
		return nil, errMissingVisitorProvider
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cookieName := deps.SessionCookieName
	if cookieName == "" {
		cookieName = "folio_visitor"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: len(origins) > 0 && origins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))
	router.Use(sessions.Sessions(cookieName, deps.SessionStore))
	router.Use(session.EnsureVisitor(deps.VisitorProvider, logger))

	handler := &httpHandler{
		content:     deps.Content,
		engagement:  deps.Engagement,
		comments:    deps.Comments,
		catalog:     deps.Catalog,
		contact:     deps.Contact,
		gallery:     deps.Gallery,
		credentials: deps.Credentials,
		tokens:      deps.Tokens,
		logger:      logger,
	}

	router.GET("/healthz", handler.handleHealth)

	router.GET("/posts", handler.handleListPosts)
	router.GET("/posts/:slug", handler.handleGetPost)
	router.GET("/posts/:slug/likes", handler.handleLikeStatus)
	router.POST("/posts/:slug/like", handler.handleToggleLike)
	router.POST("/posts/:slug/share", handler.handleTrackShare)
	router.GET("/posts/:slug/comments", handler.handleListComments)
	router.POST("/posts/:slug/comments", handler.handleSubmitComment)
	router.POST("/comments/:id/replies", handler.handleSubmitReply)

	router.GET("/projects", handler.handleListProjects)
	router.GET("/projects/:slug", handler.handleGetProject)
	router.GET("/products", handler.handleListProducts)
	router.GET("/products/:slug", handler.handleGetProduct)
	router.GET("/gallery", handler.handleGallery)
	router.POST("/contact", handler.handleSubmitContact)

	router.POST("/admin/login", handler.handleAdminLogin)

	admin := router.Group("/admin")
	admin.Use(handler.authorizeAdmin)
	{
		admin.GET("/posts", handler.handleAdminListPosts)
		admin.POST("/posts", handler.handleAdminCreatePost)
		admin.GET("/posts/:id", handler.handleAdminGetPost)
		admin.PUT("/posts/:id", handler.handleAdminUpdatePost)
		admin.DELETE("/posts/:id", handler.handleAdminDeletePost)

		admin.GET("/comments", handler.handleAdminListComments)
		admin.PUT("/comments/:id/approval", handler.handleAdminCommentApproval)
		admin.DELETE("/comments/:id", handler.handleAdminDeleteComment)
		admin.PUT("/replies/:id/approval", handler.handleAdminReplyApproval)
		admin.DELETE("/replies/:id", handler.handleAdminDeleteReply)

		admin.POST("/projects", handler.handleAdminCreateProject)
		admin.PUT("/projects/:id", handler.handleAdminUpdateProject)
		admin.DELETE("/projects/:id", handler.handleAdminDeleteProject)
		admin.POST("/products", handler.handleAdminCreateProduct)
		admin.PUT("/products/:id", handler.handleAdminUpdateProduct)
		admin.DELETE("/products/:id", handler.handleAdminDeleteProduct)

		admin.GET("/messages", handler.handleAdminListMessages)
		admin.PUT("/messages/:id/read", handler.handleAdminMarkMessageRead)
		admin.PUT("/messages/:id/reply", handler.handleAdminReplyMessage)
		admin.DELETE("/messages/:id", handler.handleAdminDeleteMessage)

		admin.POST("/gallery/photos", handler.handleAdminCreatePhoto)
		admin.POST("/gallery/videos", handler.handleAdminCreateVideo)
		admin.POST("/gallery/audios", handler.handleAdminCreateAudio)
		admin.POST("/gallery/notes", handler.handleAdminCreateNote)
		admin.POST("/gallery/quotes", handler.handleAdminCreateQuote)
		admin.PUT("/gallery/:kind/:id/order", handler.handleAdminReorderMedia)
		admin.DELETE("/gallery/:kind/:id", handler.handleAdminDeleteMedia)
	}

	return router, nil
}

type httpHandler struct {
	content     *content.Service
	engagement  *engagement.Service
	comments    *comments.Service
	catalog     *catalog.Service
	contact     *contact.Service
	gallery     *gallery.Service
	credentials auth.Credentials
	tokens      TokenManager
	logger      *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequestPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponsePayload struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func (h *httpHandler) handleAdminLogin(c *gin.Context) {
	var request loginRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || strings.TrimSpace(request.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	if err := h.credentials.Verify(request.Email, request.Password); err != nil {
		h.logger.Warn("admin login rejected", zap.String("email", request.Email))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	token, expiresIn, err := h.tokens.Issue(strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		h.logger.Error("failed to issue admin token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponsePayload{
		AccessToken: token,
		ExpiresIn:   expiresIn,
		TokenType:   "Bearer",
	})
}

func (h *httpHandler) authorizeAdmin(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errInvalidAuthorization.Error()})
		return
	}
	if _, err := h.tokens.Validate(token); err != nil {
		h.logger.Warn("admin token validation failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

// respondError maps the shared failure taxonomy onto HTTP statuses and
// surfaces the operation code for client retry logic.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, faults.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, faults.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, faults.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, faults.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
	}

	payload := gin.H{"error": strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))}
	if code := faults.Code(err); code != "" {
		payload["code"] = code
	}
	c.JSON(status, payload)
}
