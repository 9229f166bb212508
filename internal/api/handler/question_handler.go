package handler

import (
	"net/http"
	"strconv"

	"quiz_week/internal/api/middleware"
	"quiz_week/internal/app/service"
	"quiz_week/internal/common"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(qs *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: qs}
}

func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Post("/", h.createQuestion)
	r.Post("/import", h.importQuestions)
	r.Get("/", h.listSet)
}

func (h *QuestionHandler) createQuestion(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	question, err := h.questionService.CreateQuestion(r.Context(), adminID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, question)
}

func (h *QuestionHandler) importQuestions(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var reqs []service.CreateQuestionRequest
	if !decodeJSON(w, r, &reqs) {
		return
	}

	questions, err := h.questionService.ImportQuestions(r.Context(), adminID, reqs)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"imported":  len(questions),
		"questions": questions,
	})
}

// listSet is the admin view: correct options and explanations included.
func (h *QuestionHandler) listSet(w http.ResponseWriter, r *http.Request) {
	setNumber, err := strconv.Atoi(r.URL.Query().Get("set"))
	if err != nil || setNumber < 1 {
		common.RespondWithError(w, http.StatusBadRequest, "set query parameter must be a positive integer")
		return
	}

	questions, err := h.questionService.ListSet(r.Context(), setNumber, true)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}
