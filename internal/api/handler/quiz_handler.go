package handler

import (
	"net/http"
	"strconv"

	"quiz_week/internal/api/middleware"
	"quiz_week/internal/app/service"
	"quiz_week/internal/common"

	"github.com/go-chi/chi/v5"
)

// QuizHandler serves the student-facing quiz flow: this week's active
// sets, a set's questions and the one-shot submission endpoint.
type QuizHandler struct {
	questionService   *service.QuestionService
	submissionService *service.SubmissionService
}

func NewQuizHandler(qs *service.QuestionService, ss *service.SubmissionService) *QuizHandler {
	return &QuizHandler{questionService: qs, submissionService: ss}
}

func (h *QuizHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator) // All quiz routes require auth
	r.Get("/active-sets", h.activeSets)
	r.Get("/questions", h.setQuestions)
	r.Post("/submit", h.submit)
	r.Get("/results/{setNumber}", h.myResult)
}

func (h *QuizHandler) activeSets(w http.ResponseWriter, r *http.Request) {
	sets, err := h.questionService.ActiveSets(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"active_sets": sets})
}

func (h *QuizHandler) setQuestions(w http.ResponseWriter, r *http.Request) {
	setNumber, err := strconv.Atoi(r.URL.Query().Get("set"))
	if err != nil || setNumber < 1 {
		common.RespondWithError(w, http.StatusBadRequest, "set query parameter must be a positive integer")
		return
	}

	// Students never see correct options through this route.
	questions, err := h.questionService.ListSet(r.Context(), setNumber, false)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *QuizHandler) submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.submissionService.SubmitQuiz(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *QuizHandler) myResult(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	setNumber, err := strconv.Atoi(chi.URLParam(r, "setNumber"))
	if err != nil || setNumber < 1 {
		common.RespondWithError(w, http.StatusBadRequest, "setNumber must be a positive integer")
		return
	}

	result, err := h.submissionService.GetMyResult(r.Context(), userID, setNumber)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
