package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/vital"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/metrics"
)

type VitalsHandler struct {
	svc *service.VitalsService
	col *metrics.Collector
}

func NewVitalsHandler(svc *service.VitalsService, col *metrics.Collector) *VitalsHandler {
	return &VitalsHandler{svc: svc, col: col}
}

type recordVitalRequest struct {
	VitalType  string   `json:"vital_type"`
	Value      *float64 `json:"value"`
	Unit       string   `json:"unit"`
	MeasuredAt *string  `json:"measured_at"`
	Notes      string   `json:"notes"`
}

func (h *VitalsHandler) Record(c *gin.Context) {
	var req recordVitalRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &vital.RecordVitalCommand{
		UserID: currentUserID(c),
		Type:   req.VitalType,
		Value:  req.Value,
		Unit:   req.Unit,
		Notes:  req.Notes,
	}
	if req.MeasuredAt != nil {
		measuredAt, err := parseTimestamp(*req.MeasuredAt)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid measured_at: expected RFC3339 or YYYY-MM-DD")
			return
		}
		cmd.MeasuredAt = &measuredAt
	}

	v, err := h.svc.RecordVital(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.VitalsRecordedTotal.Inc()
	respondCreated(c, gin.H{"vital": v})
}

func (h *VitalsHandler) List(c *gin.Context) {
	q := &vital.ListVitalsQuery{UserID: currentUserID(c)}

	if vitalType := c.Query("vital_type"); vitalType != "" {
		q.Type = &vitalType
	}
	var ok bool
	if q.From, ok = parseQueryTime(c, "from_date"); !ok {
		return
	}
	if q.To, ok = parseQueryTime(c, "to_date"); !ok {
		return
	}

	vitals, err := h.svc.ListVitals(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"vitals": vitals, "total": len(vitals)})
}

func (h *VitalsHandler) ListTypes(c *gin.Context) {
	types, err := h.svc.ListVitalTypes(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"vital_types": types})
}

type summaryResponse struct {
	Summary *vital.Summary `json:"summary"`
	Vitals  []vitalPoint   `json:"vitals"`
}

type vitalPoint struct {
	ID         string  `json:"id"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	MeasuredAt string  `json:"measured_at"`
}

func (h *VitalsHandler) Summary(c *gin.Context) {
	vitalType := c.Param("vitalType")
	days := parseQueryInt(c, "days", 30)

	summary, vitals, err := h.svc.Summarize(c.Request.Context(), currentUserID(c), vitalType, days)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// The series stays in ascending measurement order for charting.
	points := make([]vitalPoint, 0, len(vitals))
	for _, v := range vitals {
		points = append(points, vitalPoint{
			ID:         v.ID.String(),
			Value:      v.Value,
			Unit:       v.Unit,
			MeasuredAt: v.MeasuredAt.Format(time.RFC3339),
		})
	}

	respondOK(c, summaryResponse{Summary: summary, Vitals: points})
}

func (h *VitalsHandler) Delete(c *gin.Context) {
	id, ok := parseUUID(c, "vitalId")
	if !ok {
		return
	}

	if err := h.svc.DeleteVital(c.Request.Context(), currentUserID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "vital deleted"})
}
