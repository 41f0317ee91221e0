package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fittrack/apiserver/internal/mapper"
	"github.com/fittrack/apiserver/internal/services"
	"github.com/fittrack/apiserver/types"
)

// UserHandler provides HTTP handlers for users.
type UserHandler struct {
	users services.Users
	now   func() time.Time
}

func NewUserHandler(users services.Users) *UserHandler {
	return &UserHandler{users: users, now: time.Now}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, users services.Users) {
	handler := NewUserHandler(users)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Get("/searchByEmail", handler.SearchByEmail)
	r.Get("/searchByAge", handler.SearchByAge)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, mapper.UsersToTransfer(users))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID", "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, found, err := h.users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch user")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, mapper.UserToTransfer(user))
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.parseUser(w, r)
	if err != nil {
		writeServiceError(w, r, err, "failed to create user")
		return
	}

	created, err := h.users.Create(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, mapper.UserToTransfer(created))
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID", "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.parseUser(w, r)
	if err != nil {
		writeServiceError(w, r, err, "failed to update user")
		return
	}

	updated, err := h.users.Update(r.Context(), id, user)
	if err != nil {
		writeServiceError(w, r, err, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, mapper.UserToTransfer(updated))
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "userID", "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchByEmail matches a case-insensitive email fragment. A missing
// fragment matches every user.
func (h *UserHandler) SearchByEmail(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindByEmailContaining(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "failed to search users")
		return
	}
	writeJSON(w, http.StatusOK, mapper.UsersToTransfer(users))
}

func (h *UserHandler) SearchByAge(w http.ResponseWriter, r *http.Request) {
	age, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("age")))
	if err != nil || age < 0 || age > services.MaxAgeYears {
		writeError(w, http.StatusBadRequest, "invalid age")
		return
	}

	users, err := h.users.FindOlderThan(r.Context(), age)
	if err != nil {
		writeServiceError(w, r, err, "failed to search users")
		return
	}
	writeJSON(w, http.StatusOK, mapper.UsersToTransfer(users))
}

func (h *UserHandler) parseUser(w http.ResponseWriter, r *http.Request) (types.User, error) {
	var transfer types.UserTransfer
	if err := decodeJSON(w, r, &transfer); err != nil {
		return types.User{}, err
	}

	user := mapper.UserToEntity(transfer)
	if err := user.Validate(types.DateOf(h.now().UTC())); err != nil {
		return types.User{}, err
	}
	return user, nil
}
