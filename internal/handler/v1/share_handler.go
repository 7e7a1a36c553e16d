package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/domain/share"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/metrics"
)

type ShareHandler struct {
	svc *service.ShareService
	col *metrics.Collector
}

func NewShareHandler(svc *service.ShareService, col *metrics.Collector) *ShareHandler {
	return &ShareHandler{svc: svc, col: col}
}

type createShareRequest struct {
	SharedWithUsername string  `json:"shared_with_username"`
	AccessLevel        string  `json:"access_level"`
	ExpiresAt          *string `json:"expires_at"`
}

func (h *ShareHandler) Create(c *gin.Context) {
	reportID, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	var req createShareRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &share.CreateShareCommand{
		OwnerID:         currentUserID(c),
		ReportID:        reportID,
		GranteeUsername: req.SharedWithUsername,
		AccessLevel:     req.AccessLevel,
	}
	if req.ExpiresAt != nil {
		expires, err := parseTimestamp(*req.ExpiresAt)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid expires_at: expected RFC3339 or YYYY-MM-DD")
			return
		}
		cmd.ExpiresAt = &expires
	}

	sh, err := h.svc.CreateShare(c.Request.Context(), cmd)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.SharesCreatedTotal.WithLabelValues(sh.AccessLevel).Inc()
	respondCreated(c, gin.H{"share": sh})
}

func (h *ShareHandler) ListForReport(c *gin.Context) {
	reportID, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}

	shares, err := h.svc.ListSharesForReport(c.Request.Context(), currentUserID(c), reportID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"shares": shares, "total": len(shares)})
}

func (h *ShareHandler) SharedWithMe(c *gin.Context) {
	reports, err := h.svc.SharedWithMe(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"reports": reports, "total": len(reports)})
}

func (h *ShareHandler) Revoke(c *gin.Context) {
	reportID, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}
	shareID, ok := parseUUID(c, "shareId")
	if !ok {
		return
	}

	if err := h.svc.RevokeShare(c.Request.Context(), currentUserID(c), reportID, shareID); err != nil {
		respondServiceError(c, err)
		return
	}

	h.col.SharesRevokedTotal.Inc()
	respondOK(c, gin.H{"message": "share revoked"})
}

type updateShareRequest struct {
	AccessLevel string `json:"access_level"`
}

func (h *ShareHandler) UpdateAccessLevel(c *gin.Context) {
	reportID, ok := parseUUID(c, "reportId")
	if !ok {
		return
	}
	shareID, ok := parseUUID(c, "shareId")
	if !ok {
		return
	}

	var req updateShareRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.svc.UpdateAccessLevel(c.Request.Context(), currentUserID(c), reportID, shareID, req.AccessLevel)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "share access updated"})
}
