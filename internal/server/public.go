package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folioworks/folio/backend/internal/comments"
	"github.com/folioworks/folio/backend/internal/contact"
	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/session"
)

type postSummaryPayload struct {
	PostID     string   `json:"post_id"`
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Featured   bool     `json:"featured"`
	ViewCount  int64    `json:"view_count"`
	CreatedAt  string   `json:"created_at"`
}

type postDetailPayload struct {
	postSummaryPayload
	BodyHTML   string `json:"body_html"`
	LikeCount  int64  `json:"like_count"`
	ShareCount int64  `json:"share_count"`
	Liked      bool   `json:"liked"`
}

func summarize(post content.Post) postSummaryPayload {
	return postSummaryPayload{
		PostID:     post.PostID,
		Title:      post.Title,
		Slug:       post.Slug,
		Excerpt:    post.Excerpt,
		CoverImage: post.CoverImage,
		Category:   post.Category,
		Tags:       post.Tags,
		Featured:   post.Featured,
		ViewCount:  post.ViewCount,
		CreatedAt:  post.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *httpHandler) handleListPosts(c *gin.Context) {
	filter := content.Filter{
		Query:        c.Query("q"),
		Category:     c.Query("category"),
		Tag:          c.Query("tag"),
		FeaturedOnly: c.Query("featured") == "true",
	}
	posts, err := h.content.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	payload := make([]postSummaryPayload, 0, len(posts))
	for _, post := range posts {
		payload = append(payload, summarize(post))
	}
	c.JSON(http.StatusOK, gin.H{"posts": payload})
}

// handleGetPost renders a post and records the view. The view is
// fire-and-forget analytics; it cannot fail the page.
func (h *httpHandler) handleGetPost(c *gin.Context) {
	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.engagement.RecordView(c.Request.Context(), post.PostID)

	detail := postDetailPayload{
		postSummaryPayload: summarize(post),
		BodyHTML:           content.RenderMarkdown(post.Body),
	}
	if count, err := h.engagement.LikeCount(c.Request.Context(), post.PostID); err == nil {
		detail.LikeCount = count
	}
	if count, err := h.engagement.ShareCount(c.Request.Context(), post.PostID); err == nil {
		detail.ShareCount = count
	}
	if visitor, ok := session.VisitorFrom(c); ok {
		if liked, err := h.engagement.Liked(c.Request.Context(), post.PostID, visitor); err == nil {
			detail.Liked = liked
		}
	}

	c.JSON(http.StatusOK, gin.H{"post": detail})
}

func (h *httpHandler) handleLikeStatus(c *gin.Context) {
	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	count, err := h.engagement.LikeCount(c.Request.Context(), post.PostID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	liked := false
	if visitor, ok := session.VisitorFrom(c); ok {
		if current, err := h.engagement.Liked(c.Request.Context(), post.PostID, visitor); err == nil {
			liked = current
		}
	}

	c.JSON(http.StatusOK, gin.H{"count": count, "liked": liked})
}

func (h *httpHandler) handleToggleLike(c *gin.Context) {
	visitor, ok := session.VisitorFrom(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session_unavailable"})
		return
	}

	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.engagement.ToggleLike(c.Request.Context(), post.PostID, visitor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type sharePayload struct {
	Platform string `json:"platform"`
}

// handleTrackShare always acknowledges: share analytics must never block
// the share action itself.
func (h *httpHandler) handleTrackShare(c *gin.Context) {
	var request sharePayload
	_ = c.ShouldBindJSON(&request)

	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.engagement.TrackShare(c.Request.Context(), post.PostID, request.Platform)
	c.JSON(http.StatusAccepted, gin.H{"status": "recorded"})
}

func (h *httpHandler) handleListComments(c *gin.Context) {
	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	threads, err := h.comments.ListApproved(c.Request.Context(), post.PostID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": threads})
}

type commentPayload struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Body        string `json:"body"`
}

func (h *httpHandler) handleSubmitComment(c *gin.Context) {
	var request commentPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	post, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	comment, err := h.comments.Submit(c.Request.Context(), comments.SubmitCommentRequest{
		ContentID:   post.PostID,
		AuthorName:  request.AuthorName,
		AuthorEmail: request.AuthorEmail,
		Body:        request.Body,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *httpHandler) handleSubmitReply(c *gin.Context) {
	var request commentPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	reply, err := h.comments.SubmitReply(c.Request.Context(), comments.SubmitReplyRequest{
		CommentID:   c.Param("id"),
		AuthorName:  request.AuthorName,
		AuthorEmail: request.AuthorEmail,
		Body:        request.Body,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"reply": reply})
}

func (h *httpHandler) handleListProjects(c *gin.Context) {
	projects, err := h.catalog.ListProjects(c.Request.Context(), c.Query("featured") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *httpHandler) handleGetProject(c *gin.Context) {
	project, err := h.catalog.GetProjectBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *httpHandler) handleListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *httpHandler) handleGetProduct(c *gin.Context) {
	product, err := h.catalog.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *httpHandler) handleGallery(c *gin.Context) {
	collection, err := h.gallery.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gallery": collection})
}

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *httpHandler) handleSubmitContact(c *gin.Context) {
	var request contactPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	message, err := h.contact.Submit(c.Request.Context(), contact.SubmitRequest{
		Name:    request.Name,
		Email:   request.Email,
		Subject: request.Subject,
		Body:    request.Message,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message_id": message.MessageID})
}
