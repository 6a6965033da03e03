package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

type staticVisitorProvider struct {
	ids   []VisitorID
	index int
}

func (p *staticVisitorProvider) NewVisitorID() (VisitorID, error) {
	if p.index >= len(p.ids) {
		return "", ErrInvalidVisitorID
	}
	id := p.ids[p.index]
	p.index++
	return id, nil
}

func newVisitorRouter(t *testing.T, provider Provider) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(sessions.Sessions("test_visitor", cookie.NewStore([]byte("test-secret"))))
	router.Use(EnsureVisitor(provider, nil))
	router.GET("/whoami", func(c *gin.Context) {
		id, ok := VisitorFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no visitor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"visitor_id": id.String()})
	})
	return router
}

func TestEnsureVisitorIssuesIDOnFirstRequest(t *testing.T) {
	router := newVisitorRouter(t, &staticVisitorProvider{ids: []VisitorID{"visitor-1"}})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", recorder.Code)
	}
	if cookies := recorder.Result().Cookies(); len(cookies) == 0 {
		t.Fatalf("expected session cookie to be set")
	}
}

func TestEnsureVisitorReusesCookieSession(t *testing.T) {
	provider := &staticVisitorProvider{ids: []VisitorID{"visitor-1", "visitor-2"}}
	router := newVisitorRouter(t, provider)

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("unexpected first status %d", first.Code)
	}

	second := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for _, sessionCookie := range first.Result().Cookies() {
		request.AddCookie(sessionCookie)
	}
	router.ServeHTTP(second, request)

	if second.Code != http.StatusOK {
		t.Fatalf("unexpected second status %d", second.Code)
	}
	if provider.index != 1 {
		t.Fatalf("expected one issued id across both requests, got %d", provider.index)
	}
}

func TestVisitorFromMissingContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, ok := VisitorFrom(c); ok {
		t.Fatalf("expected no visitor in bare context")
	}
}
