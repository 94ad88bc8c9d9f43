package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"envelopes/internal/pagination"
	"envelopes/internal/services"
)

// ExpenseHandler handles expense CRUD.
type ExpenseHandler struct {
	expenses services.ExpenseServicer
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenses services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// CreateExpenseRequest is the POST /expenses body. There is no envelope
// field; new expenses are always unassigned.
type CreateExpenseRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Cost        *float64 `json:"cost" binding:"required,currency"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
}

// UpdateExpenseRequest is the PATCH /expenses/:id body.
type UpdateExpenseRequest struct {
	Name        string   `json:"name" binding:"omitempty,max=255"`
	Cost        *float64 `json:"cost" binding:"omitempty,currency"`
	Description string   `json:"description" binding:"omitempty,max=2000"`
}

// CreateExpense records an expense owned by the caller.
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	caller, err := callerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	id, err := h.expenses.CreateExpense(c.Request.Context(), caller, req.Name, *req.Cost, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/expenses/%d", requestBase(c), id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetExpenses returns one page of expenses with the total count.
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	cursor := pagination.NormalizeCursor(c.Query("cursor"))
	col, err := h.expenses.ListExpenses(c.Request.Context(), requestBase(c), cursor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// GetExpense returns a single expense.
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.expenses.GetExpense(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateExpense patches an expense the caller owns and redirects to it. The
// envelope reference cannot be changed here.
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
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

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	patch := services.ExpensePatch{
		Name:        req.Name,
		Cost:        req.Cost,
		Description: req.Description,
	}
	if err := h.expenses.UpdateExpense(c.Request.Context(), caller, id, patch); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/expenses/%d", requestBase(c), id))
	c.Status(http.StatusSeeOther)
}

// DeleteExpense deletes an expense the caller owns.
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
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

	if err := h.expenses.DeleteExpense(c.Request.Context(), caller, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
