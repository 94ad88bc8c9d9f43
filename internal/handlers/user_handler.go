package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"envelopes/internal/pagination"
	"envelopes/internal/services"
)

// UserHandler handles user CRUD and the per-user property listings.
type UserHandler struct {
	users services.UserServicer
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users services.UserServicer) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUserRequest is the POST /users body.
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	First    string `json:"first" binding:"required,max=255"`
	Last     string `json:"last" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8,max=64"`
}

// UpdateUserRequest is the PATCH /users/:id body. Every field is optional;
// omitted or empty fields are left unchanged.
type UpdateUserRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	First    string `json:"first" binding:"omitempty,max=255"`
	Last     string `json:"last" binding:"omitempty,max=255"`
	Password string `json:"password" binding:"omitempty,min=8,max=64"`
}

// CreateUser registers a new account. 201 with a Location header and the new
// ID; registration is the one unauthenticated write.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	id, err := h.users.CreateUser(c.Request.Context(), req.Email, req.Password, req.First, req.Last)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/users/%d", requestBase(c), id))
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetUsers returns one page of users with the total count.
func (h *UserHandler) GetUsers(c *gin.Context) {
	cursor := pagination.NormalizeCursor(c.Query("cursor"))
	col, err := h.users.ListUsers(c.Request.Context(), requestBase(c), cursor)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// GetUser returns a single user.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.users.GetUser(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UpdateUser patches the caller's own account and redirects to it.
func (h *UserHandler) UpdateUser(c *gin.Context) {
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

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindingError(err))
		return
	}

	patch := services.UserPatch{
		Email:    req.Email,
		First:    req.First,
		Last:     req.Last,
		Password: req.Password,
	}
	if err := h.users.UpdateUser(c.Request.Context(), caller, id, patch); err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/users/%d", requestBase(c), id))
	c.Status(http.StatusSeeOther)
}

// DeleteUser deletes the caller's own account and everything it owns.
func (h *UserHandler) DeleteUser(c *gin.Context) {
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

	if err := h.users.DeleteUser(c.Request.Context(), caller, id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUserEnvelopes lists every envelope the user owns.
func (h *UserHandler) GetUserEnvelopes(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	col, err := h.users.ListUserEnvelopes(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}

// GetUserExpenses lists every expense the user owns.
func (h *UserHandler) GetUserExpenses(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	col, err := h.users.ListUserExpenses(c.Request.Context(), requestBase(c), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, col)
}
