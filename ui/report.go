package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetlens/internal/report"
)

func (s *Server) handleReport(c *gin.Context) {
	var (
		in  *report.Input
		err error
	)
	s.locked(func() { in, err = report.Collect(s.engine, "Data quality report") })
	if err != nil {
		c.String(http.StatusUnprocessableEntity, "Report unavailable: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", report.RenderHTML(in.Title, report.Build(in)))
}
