package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/folioworks/folio/backend/internal/catalog"
	"github.com/folioworks/folio/backend/internal/content"
	"github.com/folioworks/folio/backend/internal/gallery"
)

type postInputPayload struct {
	Title      string   `json:"title"`
	Slug       string   `json:"slug"`
	Excerpt    string   `json:"excerpt"`
	Body       string   `json:"body"`
	CoverImage string   `json:"cover_image"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
	Featured   bool     `json:"featured"`
}

func (p postInputPayload) toInput() content.PostInput {
	return content.PostInput{
		Title:      p.Title,
		Slug:       p.Slug,
		Excerpt:    p.Excerpt,
		Body:       p.Body,
		CoverImage: p.CoverImage,
		Category:   p.Category,
		Tags:       p.Tags,
		Published:  p.Published,
		Featured:   p.Featured,
	}
}

func (h *httpHandler) handleAdminListPosts(c *gin.Context) {
	posts, err := h.content.List(c.Request.Context(), content.Filter{
		Query:         c.Query("q"),
		Category:      c.Query("category"),
		IncludeDrafts: true,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *httpHandler) handleAdminCreatePost(c *gin.Context) {
	var request postInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.content.Create(c.Request.Context(), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

func (h *httpHandler) handleAdminGetPost(c *gin.Context) {
	post, err := h.content.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *httpHandler) handleAdminUpdatePost(c *gin.Context) {
	var request postInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.content.Update(c.Request.Context(), c.Param("id"), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *httpHandler) handleAdminDeletePost(c *gin.Context) {
	if err := h.content.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminListComments(c *gin.Context) {
	moderated, err := h.comments.ListAll(c.Request.Context(), c.Query("content_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": moderated})
}

type approvalPayload struct {
	Approved bool `json:"approved"`
}

func (h *httpHandler) handleAdminCommentApproval(c *gin.Context) {
	var request approvalPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := h.comments.SetCommentApproval(c.Request.Context(), c.Param("id"), request.Approved); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": request.Approved})
}

func (h *httpHandler) handleAdminDeleteComment(c *gin.Context) {
	if err := h.comments.DeleteComment(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminReplyApproval(c *gin.Context) {
	var request approvalPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := h.comments.SetReplyApproval(c.Request.Context(), c.Param("id"), request.Approved); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approved": request.Approved})
}

func (h *httpHandler) handleAdminDeleteReply(c *gin.Context) {
	if err := h.comments.DeleteReply(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type projectInputPayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Body         string   `json:"body"`
	CoverImage   string   `json:"cover_image"`
	TechStack    []string `json:"tech_stack"`
	LiveURL      string   `json:"live_url"`
	GithubURL    string   `json:"github_url"`
	Featured     bool     `json:"featured"`
	DisplayOrder int      `json:"display_order"`
}

func (p projectInputPayload) toInput() catalog.ProjectInput {
	return catalog.ProjectInput{
		Title:        p.Title,
		Description:  p.Description,
		Body:         p.Body,
		CoverImage:   p.CoverImage,
		TechStack:    p.TechStack,
		LiveURL:      p.LiveURL,
		GithubURL:    p.GithubURL,
		Featured:     p.Featured,
		DisplayOrder: p.DisplayOrder,
	}
}

func (h *httpHandler) handleAdminCreateProject(c *gin.Context) {
	var request projectInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	project, err := h.catalog.CreateProject(c.Request.Context(), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

func (h *httpHandler) handleAdminUpdateProject(c *gin.Context) {
	var request projectInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	project, err := h.catalog.UpdateProject(c.Request.Context(), c.Param("id"), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *httpHandler) handleAdminDeleteProject(c *gin.Context) {
	if err := h.catalog.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type productInputPayload struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	PriceCents   int64  `json:"price_cents"`
	CoverImage   string `json:"cover_image"`
	Category     string `json:"category"`
	ExternalLink string `json:"external_link"`
	Featured     bool   `json:"featured"`
	Active       bool   `json:"active"`
}

func (p productInputPayload) toInput() catalog.ProductInput {
	return catalog.ProductInput{
		Title:        p.Title,
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		CoverImage:   p.CoverImage,
		Category:     p.Category,
		ExternalLink: p.ExternalLink,
		Featured:     p.Featured,
		Active:       p.Active,
	}
}

func (h *httpHandler) handleAdminCreateProduct(c *gin.Context) {
	var request productInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *httpHandler) handleAdminUpdateProduct(c *gin.Context) {
	var request productInputPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), request.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *httpHandler) handleAdminDeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminListMessages(c *gin.Context) {
	messages, err := h.contact.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *httpHandler) handleAdminMarkMessageRead(c *gin.Context) {
	if err := h.contact.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type replyMessagePayload struct {
	ReplyMessage string `json:"reply_message"`
}

func (h *httpHandler) handleAdminReplyMessage(c *gin.Context) {
	var request replyMessagePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := h.contact.RecordReply(c.Request.Context(), c.Param("id"), request.ReplyMessage); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminDeleteMessage(c *gin.Context) {
	if err := h.contact.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminCreatePhoto(c *gin.Context) {
	var photo gallery.Photo
	if err := c.ShouldBindJSON(&photo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.gallery.CreatePhoto(c.Request.Context(), photo)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"photo": created})
}

func (h *httpHandler) handleAdminCreateVideo(c *gin.Context) {
	var video gallery.Video
	if err := c.ShouldBindJSON(&video); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.gallery.CreateVideo(c.Request.Context(), video)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"video": created})
}

func (h *httpHandler) handleAdminCreateAudio(c *gin.Context) {
	var audio gallery.Audio
	if err := c.ShouldBindJSON(&audio); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.gallery.CreateAudio(c.Request.Context(), audio)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"audio": created})
}

func (h *httpHandler) handleAdminCreateNote(c *gin.Context) {
	var note gallery.Note
	if err := c.ShouldBindJSON(&note); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.gallery.CreateNote(c.Request.Context(), note)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"note": created})
}

func (h *httpHandler) handleAdminCreateQuote(c *gin.Context) {
	var quote gallery.Quote
	if err := c.ShouldBindJSON(&quote); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	created, err := h.gallery.CreateQuote(c.Request.Context(), quote)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quote": created})
}

type displayOrderPayload struct {
	DisplayOrder int `json:"display_order"`
}

func (h *httpHandler) handleAdminReorderMedia(c *gin.Context) {
	var payload displayOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if err := h.gallery.SetDisplayOrder(c.Request.Context(), gallery.Kind(c.Param("kind")), c.Param("id"), payload.DisplayOrder); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *httpHandler) handleAdminDeleteMedia(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), gallery.Kind(c.Param("kind")), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
