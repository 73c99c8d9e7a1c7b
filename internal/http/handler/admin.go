package handler

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed admin.html
var adminPage []byte

type AdminHandler struct {
	page []byte
}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{page: adminPage}
}

func (h *AdminHandler) Page(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", h.page)
}
