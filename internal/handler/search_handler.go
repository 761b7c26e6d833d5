package handler

import (
	"net/http"
	"strconv"
	"strings"

	"Micro_Blog/internal/service"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	svc     *service.SearchService
	perPage int
}

func NewSearchHandler(svc *service.SearchService, perPage int) *SearchHandler {
	return &SearchHandler{svc: svc, perPage: perPage}
}

// Search 索引给名次，数据库给内容。索引没配或不可用时返回空结果。
func (h *SearchHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "query required"})
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))

	list, total, err := h.svc.SearchPosts(c.Request.Context(), q, page, h.perPage)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list, "total": total})
}

// Reindex 全量重建索引，修索引漂移用
func (h *SearchHandler) Reindex(c *gin.Context) {
	if err := h.svc.ReindexPosts(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "reindex failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}
