package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"circuitquest-service/internal/app"
	"circuitquest-service/internal/domain"
)

// Handler exposes the round operations as JSON endpoints.
type Handler struct {
	service *app.RoundService
}

func NewHandler(service *app.RoundService) *Handler {
	return &Handler{service: service}
}

// Register wires the round routes onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/round/quiz", h.handleQuiz)
	mux.HandleFunc("/api/round/quiz/answer", h.handleAnswer)
	mux.HandleFunc("/api/round/quiz/submit", h.handleSubmit)
	mux.HandleFunc("/api/round/components", h.handleComponents)
	mux.HandleFunc("/api/round/purchase", h.handlePurchase)
	mux.HandleFunc("/api/round/team/", h.handleTeam)
}

type envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Count     int         `json:"count,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Required  int         `json:"required,omitempty"`
	Available int         `json:"available,omitempty"`
}

type answerRequest struct {
	TeamID     string `json:"teamId"`
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type submitRequest struct {
	TeamID  string `json:"teamId"`
	Answers []int  `json:"answers"`
}

type purchaseRequest struct {
	TeamID       string   `json:"teamId"`
	ComponentIDs []string `json:"componentIds"`
}

func (h *Handler) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "method not allowed"})
		return
	}
	questions, err := h.service.ActiveQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: len(questions), Data: questions})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decodePost(w, r, &req) {
		return
	}
	result, err := h.service.SubmitAnswer(r.Context(), req.TeamID, req.QuestionID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: result})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodePost(w, r, &req) {
		return
	}
	result, err := h.service.SubmitQuiz(r.Context(), req.TeamID, req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Quiz submitted successfully", Data: result})
}

func (h *Handler) handleComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "method not allowed"})
		return
	}
	components, err := h.service.AvailableComponents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: len(components), Data: components})
}

func (h *Handler) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if !decodePost(w, r, &req) {
		return
	}
	result, err := h.service.Purchase(r.Context(), req.TeamID, req.ComponentIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Components purchased successfully", Data: result})
}

func (h *Handler) handleTeam(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "method not allowed"})
		return
	}
	teamID := strings.TrimPrefix(r.URL.Path, "/api/round/team/")
	state, err := h.service.RoundState(r.Context(), teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: state})
}

func decodePost(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Success: false, Message: "method not allowed"})
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusBadRequest, envelope{
			Success:   false,
			Message:   "Insufficient balance",
			Required:  insufficient.Required,
			Available: insufficient.Available,
		})
	case errors.Is(err, domain.ErrTeamNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrComponentsNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: err.Error()})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidSelection),
		errors.Is(err, domain.ErrAlreadyAnswered),
		errors.Is(err, domain.ErrAlreadySubmitted):
		writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
