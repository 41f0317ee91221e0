package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fittrack/apiserver/internal/mapper"
	"github.com/fittrack/apiserver/internal/services"
	"github.com/fittrack/apiserver/types"
)

// TrainingHandler provides HTTP handlers for trainings.
type TrainingHandler struct {
	trainings services.Trainings
	users     services.Users
}

// NewTrainingHandler constructs a handler. users resolves training owners.
func NewTrainingHandler(trainings services.Trainings, users services.Users) *TrainingHandler {
	return &TrainingHandler{trainings: trainings, users: users}
}

// TrainingRouter registers training routes on the given router.
func TrainingRouter(r chi.Router, trainings services.Trainings, users services.Users) {
	handler := NewTrainingHandler(trainings, users)

	r.Get("/", handler.ListTrainings)
	r.Post("/", handler.CreateTraining)
	r.Get("/completed", handler.FindCompletedAfter)
	r.Get("/user/{userID}", handler.FindByUser)
	r.Get("/activity/{activityType}", handler.FindByActivityType)
	r.Route("/{trainingID}", func(r chi.Router) {
		r.Get("/", handler.GetTraining)
		r.Put("/", handler.UpdateTraining)
		r.Delete("/", handler.DeleteTraining)
	})
}

func (h *TrainingHandler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.trainings.FindAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "failed to list trainings")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingsToTransfer(trainings))
}

func (h *TrainingHandler) GetTraining(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "trainingID", "training")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	training, found, err := h.trainings.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "failed to fetch training")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "training not found")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingToTransfer(training))
}

func (h *TrainingHandler) CreateTraining(w http.ResponseWriter, r *http.Request) {
	training, err := h.parseTraining(w, r)
	if err != nil {
		writeServiceError(w, r, err, "failed to create training")
		return
	}

	created, err := h.trainings.Create(r.Context(), training)
	if err != nil {
		writeServiceError(w, r, err, "failed to create training")
		return
	}
	writeJSON(w, http.StatusCreated, mapper.TrainingToTransfer(created))
}

func (h *TrainingHandler) UpdateTraining(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "trainingID", "training")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	training, err := h.parseTraining(w, r)
	if err != nil {
		writeServiceError(w, r, err, "failed to update training")
		return
	}

	updated, err := h.trainings.Update(r.Context(), id, training)
	if err != nil {
		writeServiceError(w, r, err, "failed to update training")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingToTransfer(updated))
}

func (h *TrainingHandler) DeleteTraining(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "trainingID", "training")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.trainings.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "failed to delete training")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TrainingHandler) FindByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r, "userID", "user")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	trainings, err := h.trainings.FindByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err, "failed to search trainings")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingsToTransfer(trainings))
}

// FindByActivityType matches the path segment exactly. An unknown name is not
// an error and yields an empty list.
func (h *TrainingHandler) FindByActivityType(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.trainings.FindByActivityType(r.Context(), chi.URLParam(r, "activityType"))
	if err != nil {
		writeServiceError(w, r, err, "failed to search trainings")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingsToTransfer(trainings))
}

func (h *TrainingHandler) FindCompletedAfter(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.trainings.FindCompletedAfter(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, err, "failed to search trainings")
		return
	}
	writeJSON(w, http.StatusOK, mapper.TrainingsToTransfer(trainings))
}

// parseTraining decodes, maps and validates the body, then checks that the
// referenced owner exists.
func (h *TrainingHandler) parseTraining(w http.ResponseWriter, r *http.Request) (types.Training, error) {
	var transfer types.TrainingTransfer
	if err := decodeJSON(w, r, &transfer); err != nil {
		return types.Training{}, err
	}

	training, err := mapper.TrainingToEntity(transfer)
	if err != nil {
		return types.Training{}, err
	}
	if err := training.Validate(); err != nil {
		return types.Training{}, err
	}

	if training.UserID != nil {
		_, found, err := h.users.Get(r.Context(), *training.UserID)
		if err != nil {
			return types.Training{}, err
		}
		if !found {
			return types.Training{}, services.ErrUserNotFound
		}
	}
	return training, nil
}
