package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"finergy-service/internal/app"
	"finergy-service/internal/auth"
	"finergy-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// TaskSetResolver yields the shared task list for a week. Satisfied by the
// challenge service directly or by its Redis cache decorator.
type TaskSetResolver interface {
	ResolveWeeklyTasks(ctx context.Context, weekNumber int) (domain.WeeklyTaskSet, error)
}

// Handler bundles the application services behind the REST and websocket API.
type Handler struct {
	auth       *auth.Service
	evaluation *app.EvaluationService
	challenges *app.ChallengeService
	taskSets   TaskSetResolver
	hub        *app.CohortHub
	news       *app.NewsService
	budget     *app.BudgetService
}

func NewHandler(
	authSvc *auth.Service,
	evaluation *app.EvaluationService,
	challenges *app.ChallengeService,
	taskSets TaskSetResolver,
	hub *app.CohortHub,
	news *app.NewsService,
	budget *app.BudgetService,
) *Handler {
	return &Handler{
		auth:       authSvc,
		evaluation: evaluation,
		challenges: challenges,
		taskSets:   taskSets,
		hub:        hub,
		news:       news,
		budget:     budget,
	}
}

// Router wires every endpoint onto a chi mux.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", h.handleSignUp)
		r.Post("/auth/signin", h.handleSignIn)
		r.Get("/evaluation/questions", h.handleQuestions)
		r.Get("/leaderboard/{zip}", h.handleLeaderboard)
		r.Get("/news/local", h.handleLocalNews)
		r.Get("/news/finance", h.handleFinanceNews)
		r.Get("/news/trending", h.handleTrendingNews)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Post("/auth/signout", h.handleSignOut)
			r.Post("/evaluation", h.handleSubmitEvaluation)
			r.Get("/users/me", h.handleCurrentUser)
			r.Get("/challenges/current", h.handleCurrentChallenges)
			r.Get("/challenges/{week}", h.handleChallengesByWeek)
			r.Post("/challenges/{week}/tasks/{index}/toggle", h.handleToggleTask)
			r.Put("/budget/bills", h.handleSaveBills)
			r.Get("/budget/bills", h.handleBills)
			r.Get("/budget/suggestion", h.handleSuggestion)
		})
	})

	r.Get("/ws/leaderboard", h.ServeLeaderboardWS)

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("write response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidationError(err) || errors.Is(err, domain.ErrInvalidZipCode):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrEvaluationRequired):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
