package session

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// contextKey carries the visitor id through the gin request context.
	contextKey = "folio_visitor_id"
	// sessionKey names the value inside the cookie-backed session.
	sessionKey = "visitor_id"
)

// EnsureVisitor returns middleware that lazily issues a stable anonymous
// visitor id and persists it in the cookie session. A browser keeps the same
// id across requests; if the cookie cannot be written the request proceeds
// with a fresh id, which degrades like semantics but never fails the page.
func EnsureVisitor(provider Provider, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		store := sessions.Default(c)

		if raw, ok := store.Get(sessionKey).(string); ok {
			if id, err := NewVisitorID(raw); err == nil {
				c.Set(contextKey, id)
				c.Next()
				return
			}
		}

		id, err := provider.NewVisitorID()
		if err != nil {
			logger.Error("visitor id generation failed", zap.Error(err))
			c.Next()
			return
		}

		store.Set(sessionKey, id.String())
		if err := store.Save(); err != nil {
			logger.Warn("visitor session cookie not persisted", zap.Error(err))
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// VisitorFrom extracts the visitor id placed in the context by EnsureVisitor.
func VisitorFrom(c *gin.Context) (VisitorID, bool) {
	value, exists := c.Get(contextKey)
	if !exists {
		return "", false
	}
	id, ok := value.(VisitorID)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
