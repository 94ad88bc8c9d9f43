package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"envelopes/internal/pagination"
	"envelopes/internal/services"
)

// EnvelopeHandler handles envelope CRUD and the expense assignment routes.
type EnvelopeHandler struct {
	envelopes services.EnvelopeServicer
}

// NewEnvelopeHandler creates a new envelope handler.
func NewEnvelopeHandler(envelopes services.EnvelopeServicer) *EnvelopeHandler {
	return &EnvelopeHandler{envelopes: envelopes}
}

// CreateEnvelopeRequest is the POST /envelopes body.
type CreateEnvelopeRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	TotalAmount *float64 `json:"totalAmount" binding:"required,currency"`
}

// UpdateEnvelopeRequest is the PATCH /envelopes/:id body.
type UpdateEnvelopeRequest struct {
	Name        string   `json:"name" binding:"omitempty,max=255"`
	TotalAmount *float64 `json:"totalAmount" binding:"omitempty,currency"`
}

// CreateEnvelope creates an envelope owned by the caller.
func (h *EnvelopeHandler) CreateEnvelope(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEnvelopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	id, err := h.envelopes.CreateEnvelope(c.Request.Context(), caller, req.Name, *req.TotalAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/envelopes/%d", requestBase(c), id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetEnvelopes returns one page of envelopes with the total count.
func (h *EnvelopeHandler) GetEnvelopes(c *gin.Context) {
	cursor := pagination.NormalizeCursor(c.Query("cursor"))
	col, err := h.envelopes.ListEnvelopes(c.Request.Context(), requestBase(c), cursor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// GetEnvelope returns a single envelope with its derived amounts.
func (h *EnvelopeHandler) GetEnvelope(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.envelopes.GetEnvelope(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateEnvelope patches an envelope the caller owns and redirects to it.
func (h *EnvelopeHandler) UpdateEnvelope(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEnvelopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	patch := services.EnvelopePatch{
		Name:        req.Name,
		TotalAmount: req.TotalAmount,
	}
	if err := h.envelopes.UpdateEnvelope(c.Request.Context(), caller, id, patch); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/envelopes/%d", requestBase(c), id))
	c.Status(http.StatusSeeOther)
}

// DeleteEnvelope deletes an envelope the caller owns, detaching its expenses
// first.
func (h *EnvelopeHandler) DeleteEnvelope(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.envelopes.DeleteEnvelope(c.Request.Context(), caller, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignExpense puts an expense into an envelope and redirects to the
// envelope's expense listing.
func (h *EnvelopeHandler) AssignExpense(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	envelopeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := pathID(c, "expenseId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.envelopes.AssignExpense(c.Request.Context(), caller, envelopeID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/envelopes/%d/expenses", requestBase(c), envelopeID))
	c.Status(http.StatusSeeOther)
}

// UnassignExpense removes an expense from an envelope and redirects to the
// envelope's expense listing.
func (h *EnvelopeHandler) UnassignExpense(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	envelopeID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	expenseID, err := pathID(c, "expenseId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.envelopes.UnassignExpense(c.Request.Context(), caller, envelopeID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/envelopes/%d/expenses", requestBase(c), envelopeID))
	c.Status(http.StatusSeeOther)
}

// GetEnvelopeExpenses lists every expense assigned to the envelope.
func (h *EnvelopeHandler) GetEnvelopeExpenses(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	col, err := h.envelopes.ListEnvelopeExpenses(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}
