package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *server) adminDashboard(c *gin.Context) {
	stats, err := s.catalog.Stats(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard.tmpl", withUser(c, ViewData{"Stats": stats}))
}
