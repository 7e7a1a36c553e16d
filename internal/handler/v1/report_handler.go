package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/report"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/metrics"
)

type ReportHandler struct {
	svc *service.ReportService
	col *metrics.Collector
}

func NewReportHandler(svc *service.ReportService, col *metrics.Collector) *ReportHandler {
	return &ReportHandler{svc: svc, col: col}
}

func (h *ReportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "no file provided")
		return
	}

	cmd := &report.UploadReportCommand{
		OwnerID:     currentUserID(c),
		FileName:    fileHeader.Filename,
		FileType:    fileHeader.Header.Get("Content-Type"),
		Category:    c.PostForm("report_type"),
		Description: c.PostForm("description"),
		Size:        fileHeader.Size,
	}

	if raw := c.PostForm("report_date"); raw != "" {
		date, err := parseTimestamp(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid report_date: expected YYYY-MM-DD")
			return
		}
		cmd.ReportDate = date
	}

	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	defer f.Close()

	rep, err := h.svc.Upload(c.Request.Context(), cmd, f)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.ReportsUploadedTotal.Inc()
	respondCreated(c, gin.H{"report": rep})
}

func (h *ReportHandler) List(c *gin.Context) {
	q := &report.ListReportsQuery{OwnerID: currentUserID(c)}

	if category := c.Query("report_type"); category != "" {
		q.Category = &category
	}
	var ok bool
	if q.From, ok = parseQueryTime(c, "from_date"); !ok {
		return
	}
	if q.To, ok = parseQueryTime(c, "to_date"); !ok {
		return
	}

	reports, err := h.svc.ListReports(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"reports": reports, "total": len(reports)})
}

func (h *ReportHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	rep, err := h.svc.GetReport(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"report": rep})
}

func (h *ReportHandler) Download(c *gin.Context) {
	id, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	rep, rc, err := h.svc.Download(c.Request.Context(), id, currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+rep.FileName+`"`)
	c.Header("Content-Type", rep.FileType)
	c.Status(http.StatusOK)

	_, _ = io.Copy(c.Writer, rc)
}

type updateReportRequest struct {
	Category    *string `json:"report_type"`
	ReportDate  *string `json:"report_date"`
	Description *string `json:"description"`
}

func (h *ReportHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	var req updateReportRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &report.UpdateReportCommand{
		Category:    req.Category,
		Description: req.Description,
	}
	if req.ReportDate != nil {
		date, err := parseTimestamp(*req.ReportDate)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid report_date: expected YYYY-MM-DD")
			return
		}
		cmd.ReportDate = &date
	}

	rep, err := h.svc.UpdateReport(c.Request.Context(), id, currentUserID(c), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"report": rep})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	if err := h.svc.DeleteReport(c.Request.Context(), id, currentUserID(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.ReportsDeletedTotal.Inc()
	respondOK(c, gin.H{"message": "report deleted"})
}
