package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/peerfact/peerfact/internal/application"
	"github.com/peerfact/peerfact/internal/domain/entity"
	"github.com/peerfact/peerfact/internal/domain/repository"
	"github.com/peerfact/peerfact/internal/engine"
	"github.com/peerfact/peerfact/pkg/response"
	"github.com/peerfact/peerfact/pkg/validation"
)

// maxMediaBytes caps claim media uploads at 10 MiB.
const maxMediaBytes = 10 << 20

type ClaimHandler struct {
	Claims        *application.ClaimService
	Verifications *application.VerificationService
	Logger        *logrus.Logger
}

func NewClaimHandler(claims *application.ClaimService, verifications *application.VerificationService, logger *logrus.Logger) *ClaimHandler {
	return &ClaimHandler{Claims: claims, Verifications: verifications, Logger: logger}
}

type createClaimRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
	Link string `json:"link" binding:"omitempty,url,max=2048"`
}

type analyzeRequest struct {
	Text string `json:"text" binding:"required,min=1,max=1000"`
	Link string `json:"link" binding:"omitempty,url,max=2048"`
}

type verifyRequest struct {
	Stance      string `json:"stance" binding:"required,stance"`
	SourceURL   string `json:"source_url" binding:"omitempty,url,max=2048"`
	Explanation string `json:"explanation" binding:"omitempty,max=2000"`
}

func claimJSON(c *entity.Claim) gin.H {
	return gin.H{
		"id":            c.ID,
		"author_id":     c.AuthorID,
		"text":          c.Text,
		"link":          c.Link,
		"media_url":     c.MediaURL,
		"ai_label":      c.AILabel,
		"ai_summary":    c.AISummary,
		"ai_confidence": c.AIConfidence,
		"created_at":    c.CreatedAt,
	}
}

func verificationJSON(v *entity.Verification) gin.H {
	return gin.H{
		"id":          v.ID,
		"claim_id":    v.ClaimID,
		"author_id":   v.AuthorID,
		"stance":      v.Stance,
		"source_url":  v.SourceURL,
		"explanation": v.Explanation,
		"weight":      v.WeightAtSubmission,
		"created_at":  v.CreatedAt,
	}
}

func (h *ClaimHandler) Create(c *gin.Context) {
	var req createClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	claim, err := h.Claims.CreateClaim(c.Request.Context(), uid, req.Text, req.Link)
	if err != nil {
		h.writeServiceError(c, err, "failed to create claim")
		return
	}
	response.Success(c, http.StatusCreated, claimJSON(claim), "claim created", nil)
}

// Analyze runs the classifier over arbitrary text without persisting a claim.
func (h *ClaimHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a := h.Claims.Analyze(c.Request.Context(), req.Text, req.Link)
	src := engine.AssessSource(req.Link)
	response.Success(c, http.StatusOK, gin.H{
		"label":      a.Label,
		"summary":    a.Summary,
		"confidence": a.Confidence,
		"source":     src,
	}, "analysis", nil)
}

func (h *ClaimHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	items, err := h.Claims.ListClaims(c.Request.Context(), limit)
	if err != nil {
		h.Logger.WithError(err).Error("list claims failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to list claims", nil)
		return
	}
	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{"claim": claimJSON(it.Claim), "verdict": it.Verdict})
	}
	response.Success(c, http.StatusOK, out, "claims", map[string]any{"count": len(out)})
}

func (h *ClaimHandler) Get(c *gin.Context) {
	detail, err := h.Claims.GetClaimDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err, "failed to load claim")
		return
	}
	verifs := make([]gin.H, 0, len(detail.Verifications))
	for _, v := range detail.Verifications {
		verifs = append(verifs, verificationJSON(v))
	}
	response.Success(c, http.StatusOK, gin.H{
		"claim":         claimJSON(detail.Claim),
		"verifications": verifs,
		"verdict":       detail.Verdict,
	}, "claim", nil)
}

// Verdict recomputes and returns the current verdict for a claim. The result
// is derived from the ledger on every call, never cached.
func (h *ClaimHandler) Verdict(c *gin.Context) {
	v, err := h.Claims.GetVerdict(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err, "failed to compute verdict")
		return
	}
	response.Success(c, http.StatusOK, v, "verdict", nil)
}

func (h *ClaimHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	uid := c.GetString("userID")
	v, err := h.Verifications.AddVerification(c.Request.Context(), c.Param("id"), uid, entity.Stance(req.Stance), req.SourceURL, req.Explanation)
	if err != nil {
		h.writeServiceError(c, err, "failed to add verification")
		return
	}
	verdict, err := h.Claims.GetVerdict(c.Request.Context(), v.ClaimID)
	if err != nil {
		h.writeServiceError(c, err, "failed to compute verdict")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"verification": verificationJSON(v),
		"verdict":      verdict,
	}, "verification recorded", nil)
}

func (h *ClaimHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query parameter q", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Claims.SearchClaims(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).WithField("q", q).Error("claim search failed")
		response.Error[any](c, http.StatusBadGateway, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *ClaimHandler) UploadMedia(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing multipart file field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxMediaBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}
	contentType := header.Header.Get("Content-Type")
	url, err := h.Claims.AttachMedia(c.Request.Context(), c.Param("id"), file, header.Filename, contentType)
	if err != nil {
		h.writeServiceError(c, err, "failed to upload media")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"media_url": url}, "media attached", nil)
}

// writeServiceError maps application errors onto HTTP statuses in one place
// so handlers stay thin.
func (h *ClaimHandler) writeServiceError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "claim not found", nil)
	case errors.Is(err, application.ErrUserInactive):
		response.Error[any](c, http.StatusForbidden, "user deactivated", nil)
	case errors.Is(err, application.ErrReputationContention):
		response.Error[any](c, http.StatusConflict, "reputation update contention, retry", nil)
	case errors.Is(err, application.ErrMediaStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "media storage unavailable", nil)
	default:
		h.Logger.WithError(err).Error(fallback)
		response.Error[any](c, http.StatusInternalServerError, fallback, nil)
	}
}
