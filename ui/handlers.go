package ui

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sheetlens/adapters/excel"
	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/analytics"
	"sheetlens/internal/errors"
)

// respond writes the envelope: 200 on success, 422 when the engine reported
// a failure
func respond[T any](c *gin.Context, res analytics.Result[T]) {
	status := http.StatusOK
	if !res.OK() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}

func (s *Server) handleUpload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respond(c, analytics.Fail[*analytics.LoadSummary](errors.CodeLoad, "No file was uploaded", err))
		return
	}
	src, err := fh.Open()
	if err != nil {
		respond(c, analytics.Fail[*analytics.LoadSummary](errors.CodeLoad, "Uploaded file could not be read", err))
		return
	}
	defer src.Close()

	path, err := s.storage.Store(c.Request.Context(), src, fh.Filename)
	if err != nil {
		if core.IsInputError(err) {
			s.logger.Warn("[API] Rejected upload %s: %v", fh.Filename, err)
		} else {
			s.logger.Error("[API] Failed to store upload %s: %v", fh.Filename, err)
		}
		respond(c, analytics.Fail[*analytics.LoadSummary](errors.CodeLoad, uploadFailure(err), err))
		return
	}
	// the engine keeps the dataset in memory
	defer func() {
		if err := s.storage.Delete(context.Background(), path); err != nil {
			s.logger.Warn("[API] Failed to remove upload %s: %v", path, err)
		}
	}()

	stored, err := s.storage.Open(c.Request.Context(), path)
	if err != nil {
		respond(c, analytics.Fail[*analytics.LoadSummary](errors.CodeLoad, "Uploaded file could not be read", err))
		return
	}
	defer stored.Close()

	var res analytics.Result[*analytics.LoadSummary]
	s.locked(func() { res = s.engine.Load(stored, fh.Filename) })
	s.logger.Info("[API] Upload %s loaded from %s: %s", fh.Filename, path, res.StatusMsg)
	respond(c, res)
}

func uploadFailure(err error) string {
	switch {
	case errors.Is(err, core.ErrUnsupportedFormat):
		return "Upload file with .xlsx or .csv format only"
	case errors.Is(err, core.ErrFileTooLarge):
		return "Uploaded file exceeds the size limit"
	}
	return "Uploaded file could not be stored"
}

func (s *Server) handleData(c *gin.Context) {
	var res analytics.Result[*dataset.Dataset]
	s.locked(func() { res = s.engine.Data() })
	respond(c, res)
}

func (s *Server) handleIntegrity(c *gin.Context) {
	var res analytics.Result[stats.MissingnessReport]
	s.locked(func() { res = s.engine.CheckIntegrity() })
	respond(c, res)
}

func (s *Server) handleRemediate(c *gin.Context) {
	opts := analytics.DefaultRemediationOptions()
	if err := bindOptional(c, &opts); err != nil {
		respond(c, analytics.Fail[*dataset.Dataset](errors.CodeIntegrityRemediation, "Invalid remediation options", err))
		return
	}

	var res analytics.Result[*dataset.Dataset]
	s.locked(func() { res = s.engine.Remediate(opts) })
	respond(c, res)
}

func (s *Server) handleDescribe(c *gin.Context) {
	var res analytics.Result[*stats.DescriptiveSummary]
	s.locked(func() { res = s.engine.Describe() })
	respond(c, res)
}

// outlierRequest distinguishes an absent whisker factor from an explicit 0
type outlierRequest struct {
	Columns       []string `json:"selected_columns"`
	Method        string   `json:"imputation_method"`
	WhiskerFactor *float64 `json:"whisker_factor"`
}

func (s *Server) handleOutliers(c *gin.Context) {
	var req outlierRequest
	if err := bindOptional(c, &req); err != nil {
		respond(c, analytics.Fail[*stats.OutlierReport](errors.CodeOutlierRemediation, "Invalid outlier options", err))
		return
	}
	opts := analytics.OutlierOptions{
		Columns:       req.Columns,
		Method:        req.Method,
		WhiskerFactor: s.cfg.Analytics.WhiskerFactor,
	}
	if req.WhiskerFactor != nil {
		opts.WhiskerFactor = *req.WhiskerFactor
	}

	var res analytics.Result[*stats.OutlierReport]
	s.locked(func() { res = s.engine.RemoveOutliers(opts) })
	respond(c, res)
}

func (s *Server) handleDistribution(c *gin.Context) {
	bins, err := strconv.Atoi(c.DefaultQuery("bins", "0"))
	if err != nil {
		bins = 0
	}

	var res analytics.Result[*stats.Distribution]
	s.locked(func() { res = s.engine.Distribution(c.Param("feature"), bins) })
	respond(c, res)
}

func (s *Server) handleTrend(c *gin.Context) {
	var res analytics.Result[*stats.Trend]
	s.locked(func() { res = s.engine.Trend(c.Query("x"), c.Query("y")) })
	respond(c, res)
}

func (s *Server) handleBoxPlot(c *gin.Context) {
	var res analytics.Result[*stats.BoxPlot]
	s.locked(func() { res = s.engine.BoxPlot(c.Param("feature")) })
	respond(c, res)
}

func (s *Server) handleExport(c *gin.Context) {
	var res analytics.Result[*analytics.ExportResult]
	s.locked(func() { res = s.engine.Export(s.cfg.Export.Dir) })
	respond(c, res)
}

// handleDownload exports the current dataset and streams the workbook back
func (s *Server) handleDownload(c *gin.Context) {
	var res analytics.Result[*analytics.ExportResult]
	s.locked(func() { res = s.engine.Export(s.cfg.Export.Dir) })
	if !res.OK() {
		respond(c, res)
		return
	}
	c.FileAttachment(res.Output.Path, excel.ExportFileName)
}

// bindOptional decodes a JSON body into dst, leaving dst untouched when the
// body is empty
func bindOptional(c *gin.Context, dst interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && err != io.EOF {
		return err
	}
	return nil
}
