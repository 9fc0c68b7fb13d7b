package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/mariaherliana/invoice-creation/internal/domain"
	"github.com/mariaherliana/invoice-creation/internal/export"
	"github.com/mariaherliana/invoice-creation/internal/service"
)

// DocumentHandler handles document generation and history endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

type lineItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type generateRequest struct {
	Kind           domain.DocumentKind   `json:"kind"`
	PartyName      string                `json:"party_name" binding:"required"`
	PartyAddress   string                `json:"party_address"`
	PartyEmail     string                `json:"party_email"`
	IssuerName     string                `json:"issuer_name"`
	IssuerAddress  string                `json:"issuer_address"`
	IssueDate      string                `json:"issue_date" binding:"required"`
	DueDate        string                `json:"due_date"`
	Theme          domain.Theme          `json:"theme"`
	CurrencySymbol string                `json:"currency_symbol"`
	Items          []lineItemRequest     `json:"items" binding:"required"`
	Remittance     domain.RemittanceInfo `json:"remittance"`
}

// Generate handles POST /api/v1/documents
// @Summary Generate a document
// @Description Number, render, store, and record an invoice or purchase order from a draft
// @Tags documents
// @Accept json
// @Produce json
// @Success 201 {object} APIResponse{data=domain.Document} "Document issued"
// @Failure 400 {object} APIResponse "Invalid draft"
// @Failure 409 {object} APIResponse "Sequence allocation exhausted retries"
// @Router /documents [post]
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "party_name, issue_date, and items are required")
		return
	}

	draft, err := req.toDraft()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	doc, err := h.documentService.Generate(c.Request.Context(), draft)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

func (r *generateRequest) toDraft() (*domain.Draft, error) {
	issueDate, err := time.Parse("2006-01-02", r.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("issue_date must be YYYY-MM-DD")
	}
	var dueDate *time.Time
	if r.DueDate != "" {
		d, err := time.Parse("2006-01-02", r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("due_date must be YYYY-MM-DD")
		}
		dueDate = &d
	}

	kind := r.Kind
	if kind == "" {
		kind = domain.KindInvoice
	}
	theme := r.Theme
	if theme == "" {
		theme = domain.ThemeCream
	}

	items := make([]domain.LineItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, domain.LineItem{
			Name:        it.Name,
			Description: it.Description,
			Amount:      it.Amount,
		})
	}

	return &domain.Draft{
		Kind:           kind,
		PartyName:      r.PartyName,
		PartyAddress:   r.PartyAddress,
		PartyEmail:     r.PartyEmail,
		IssuerName:     r.IssuerName,
		IssuerAddress:  r.IssuerAddress,
		IssueDate:      issueDate,
		DueDate:        dueDate,
		Theme:          theme,
		CurrencySymbol: r.CurrencySymbol,
		Items:          items,
		Remittance:     r.Remittance,
	}, nil
}

// List handles GET /api/v1/documents
// @Summary Recent documents
// @Description List the most recently issued documents, newest first
// @Tags documents
// @Produce json
// @Param limit query int false "Maximum records (default 10, max 100)"
// @Success 200 {object} APIResponse{data=[]domain.Document}
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	docs, err := h.documentService.Recent(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, docs)
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// DownloadURL handles GET /api/v1/documents/:id/download
// @Summary Presigned download URL
// @Description Return a time-limited URL for the stored PDF
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} APIResponse
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	url, err := h.documentService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// DownloadPDF handles GET /api/v1/documents/:id/pdf and streams the
// stored bytes directly, for deployments where the bucket is private
// and presigned URLs are not reachable by the client.
func (h *DocumentHandler) DownloadPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid document id")
		return
	}
	doc, data, err := h.documentService.DownloadPDF(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.PDFKey))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Export handles GET /api/v1/documents/export?format=csv|xlsx
func (h *DocumentHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	docs, err := h.documentService.Recent(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	// Once streaming starts the status is committed; a mid-stream
	// failure can only be logged, not turned into an error envelope.
	switch format {
	case "csv":
		c.Header("Content-Disposition", "attachment; filename=documents.csv")
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Status(http.StatusOK)
		if err := export.WriteCSV(c.Writer, docs); err != nil {
			log.Error().Err(err).Msg("csv export stream failed")
		}
	case "xlsx":
		c.Header("Content-Disposition", "attachment; filename=documents.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := export.WriteXLSX(c.Writer, docs); err != nil {
			log.Error().Err(err).Msg("xlsx export stream failed")
		}
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be csv or xlsx")
	}
}

// RemittancePrefill handles GET /api/v1/parties/remittance?name=
// Returns 204 when the party has no prior invoice.
func (h *DocumentHandler) RemittancePrefill(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name query parameter is required")
		return
	}
	rem, err := h.documentService.RemittancePrefill(c.Request.Context(), name)
	if err != nil {
		HandleError(c, err)
		return
	}
	if rem == nil {
		c.Status(http.StatusNoContent)
		return
	}
	RespondOK(c, rem)
}
