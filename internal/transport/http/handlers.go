package http

import (
	"net/http"
	"strconv"

	"finergy-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	identity, token, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: identity})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	identity, token, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: identity})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Questions())
}

type submitEvaluationRequest struct {
	ZipCode string          `json:"zipCode"`
	Answers []domain.Answer `json:"answers"`
}

func (h *Handler) handleSubmitEvaluation(w http.ResponseWriter, r *http.Request) {
	var req submitEvaluationRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	answers := make(map[int]domain.Answer, len(req.Answers))
	for _, answer := range req.Answers {
		answers[answer.QuestionID] = answer
	}
	identity := identityFrom(r.Context())
	result, err := h.evaluation.Submit(r.Context(), identity.UserID, answers, req.ZipCode)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type currentUserResponse struct {
	Identity   domain.Identity          `json:"identity"`
	Profile    domain.UserProfile       `json:"profile"`
	Evaluation *domain.EvaluationResult `json:"evaluation,omitempty"`
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	profile, result, err := h.evaluation.GetUser(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{Identity: identity, Profile: profile, Evaluation: result})
}

type challengesResponse struct {
	WeekNumber int                  `json:"weekNumber"`
	Tasks      []string             `json:"tasks"`
	Completed  map[int]bool         `json:"completed"`
	State      domain.ProgressState `json:"state"`
}

func (h *Handler) handleCurrentChallenges(w http.ResponseWriter, r *http.Request) {
	h.writeChallenges(w, r, h.challenges.CurrentWeek())
}

func (h *Handler) handleChallengesByWeek(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid week number"})
		return
	}
	h.writeChallenges(w, r, week)
}

func (h *Handler) writeChallenges(w http.ResponseWriter, r *http.Request, week int) {
	taskSet, err := h.taskSets.ResolveWeeklyTasks(r.Context(), week)
	if err != nil {
		writeError(w, err)
		return
	}
	identity := identityFrom(r.Context())
	progress, err := h.challenges.GetProgress(r.Context(), identity.UserID, week)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, challengesResponse{
		WeekNumber: taskSet.WeekNumber,
		Tasks:      taskSet.Tasks,
		Completed:  progress.Completed,
		State:      progress.State(),
	})
}

type toggleResponse struct {
	Progress domain.TaskProgress  `json:"progress"`
	State    domain.ProgressState `json:"state"`
	Score    float64              `json:"score"`
}

func (h *Handler) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid week number"})
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid task index"})
		return
	}
	identity := identityFrom(r.Context())
	progress, score, err := h.challenges.ToggleTask(r.Context(), identity.UserID, week, index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Progress: progress, State: progress.State(), Score: score})
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.challenges.RankCohort(r.Context(), chi.URLParam(r, "zip"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) handleLocalNews(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	writeJSON(w, http.StatusOK, h.news.Local(r.Context(), zip, articleCount(r)))
}

func (h *Handler) handleFinanceNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.news.Finance(r.Context(), articleCount(r)))
}

func (h *Handler) handleTrendingNews(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.news.Trending(r.Context(), articleCount(r)))
}

func articleCount(r *http.Request) int {
	if n, err := strconv.Atoi(r.URL.Query().Get("count")); err == nil && n > 0 && n <= 50 {
		return n
	}
	return 10
}

type billsRequest struct {
	Bills []domain.Bill `json:"bills"`
}

type billsResponse struct {
	Bills []domain.Bill `json:"bills"`
	Total float64       `json:"total"`
}

func (h *Handler) handleSaveBills(w http.ResponseWriter, r *http.Request) {
	var req billsRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	identity := identityFrom(r.Context())
	if err := h.budget.SaveBills(r.Context(), identity.UserID, req.Bills); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBills(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	bills, total, err := h.budget.Bills(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	writeJSON(w, http.StatusOK, billsResponse{Bills: bills, Total: total})
}

type suggestionResponse struct {
	Suggestion string `json:"suggestion"`
}

func (h *Handler) handleSuggestion(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())
	suggestion, err := h.budget.Suggestion(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestionResponse{Suggestion: suggestion})
}
