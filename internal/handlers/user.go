package handlers

import (
	"net/http"

	"github.com/vietcharge/vietcharge/internal/handlers/render"
	"github.com/vietcharge/vietcharge/internal/handlers/userctx"
	"github.com/vietcharge/vietcharge/internal/logger"
	"github.com/vietcharge/vietcharge/internal/repository"
	"github.com/vietcharge/vietcharge/internal/service/user"
)

type UserHandler struct {
	userService userService
	logger      logger.Logger
}

func NewUser(users userService, l logger.Logger) *UserHandler {
	return &UserHandler{userService: users, logger: l}
}

// me returns the profile of the authenticated caller.
func (h *UserHandler) me(w http.ResponseWriter, r *http.Request) {
	current, ok := userctx.User(r.Context())
	if !ok {
		// Auth middleware guarantees the user, treat absence as a bug
		http.Error(w, "user not found in context", http.StatusInternalServerError)
		return
	}

	render.JSON(w, current.DTO())
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	type CreateUserRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		FullName string `json:"fullName" validate:"max=100"`
		Role     string `json:"role" validate:"omitempty,oneof=ADMIN EDITOR USER"`
		Status   string `json:"status" validate:"omitempty,oneof=ACTIVE DISABLED"`
	}

	data, err := render.BindAndValidate[CreateUserRequest](w, r)
	if err != nil {
		return
	}

	created, err := h.userService.CreateUser(r.Context(), user.CreateUserParams{
		Email:    data.Email,
		Password: data.Password,
		FullName: data.FullName,
		Role:     data.Role,
		Status:   data.Status,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSONWithStatus(w, created, http.StatusCreated)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	found, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, found)
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := repository.ListUsersParams{
		Page:   queryInt(query.Get("page"), 1),
		Limit:  queryInt(query.Get("limit"), defaultPageLimit),
		Search: query.Get("search"),
	}
	if params.Limit > maxPageLimit {
		params.Limit = maxPageLimit
	}

	users, total, err := h.userService.ListUsers(r.Context(), params)
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSONWithMeta(w, users, render.Pagination(params.Page, params.Limit, total))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	type UpdateUserRequest struct {
		Email    *string `json:"email" validate:"omitempty,email"`
		FullName *string `json:"fullName" validate:"omitempty,max=100"`
		Password *string `json:"password" validate:"omitempty,min=8"`
		Role     *string `json:"role" validate:"omitempty,oneof=ADMIN EDITOR USER"`
		Status   *string `json:"status" validate:"omitempty,oneof=ACTIVE DISABLED"`
	}

	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	data, err := render.BindAndValidate[UpdateUserRequest](w, r)
	if err != nil {
		return
	}

	updated, err := h.userService.UpdateUser(r.Context(), userID, user.UpdateUserParams{
		Email:    data.Email,
		FullName: data.FullName,
		Password: data.Password,
		Role:     data.Role,
		Status:   data.Status,
	})
	if err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, updated)
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	type DeleteResponse struct {
		Message string `json:"message"`
	}

	userID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		render.Error(w, err)
		return
	}

	render.JSON(w, DeleteResponse{Message: "user disabled"})
}
