package handlers

import (
	"net/http"

	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	attemptService *services.AttemptService
}

func NewAttemptHandler(attemptService *services.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

type AnswerReceivedResponse struct {
	Response string `json:"response" example:"Answer received"`
}

type CompleteResponse struct {
	Result string `json:"result" example:"2/2"`
}

// StartAttempt godoc
// @Summary      Start a quiz attempt
// @Description  Opens a timed attempt and returns the quiz without correctness flags. Fails if the quiz is not fully created, both attempts are used, or another attempt is still ongoing.
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} services.StartedAttempt
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/attempt/start [post]
func (h *AttemptHandler) StartAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	attempt, err := h.attemptService.Start(c.Request.Context(), quizID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// AnswerQuestion godoc
// @Summary      Submit an answer for one question
// @Description  Records the choice in the answer cache; resubmitting the same question replaces the earlier choice
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Param        question_id path int true "Question ID"
// @Param        answer_id path int true "Answer ID"
// @Success      200 {object} AnswerReceivedResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/answer-question/{question_id}/{answer_id} [post]
func (h *AttemptHandler) AnswerQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := parseIDParam(c, "question_id")
	if !ok {
		return
	}
	answerID, ok := parseIDParam(c, "answer_id")
	if !ok {
		return
	}

	if err := h.attemptService.Answer(c.Request.Context(), attemptID, questionID, answerID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnswerReceivedResponse{Response: "Answer received"})
}

// CompleteAttempt godoc
// @Summary      Complete an attempt
// @Description  Scores the cached answers, fixes the result on the attempt and archives the readable result document for 48 hours
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} CompleteResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/complete [post]
func (h *AttemptHandler) CompleteAttempt(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.attemptService.Complete(c.Request.Context(), attemptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CompleteResponse{Result: result})
}

// GetAttemptResults godoc
// @Summary      Get the archived result of a completed attempt
// @Description  Available for 48 hours after completion; 404 once the archive has expired
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Attempt ID"
// @Success      200 {object} services.ResultDocument
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/attempts/{id}/answers [get]
func (h *AttemptHandler) GetAttemptResults(c *gin.Context) {
	userID := c.GetUint("user_id")
	attemptID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.attemptService.Results(c.Request.Context(), attemptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// ListAttempts godoc
// @Summary      List the authenticated user's attempts
// @Tags         attempts
// @Produce      json
// @Security     BearerAuth
// @Param        company_id query int false "Limit to one company's quizzes"
// @Success      200 {array} services.AttemptSummary
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/attempts [get]
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID := c.GetUint("user_id")

	var companyID *uint
	if raw, ok := c.GetQuery("company_id"); ok {
		id, err := parseQueryID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid company_id parameter"})
			return
		}
		companyID = &id
	}

	attempts, err := h.attemptService.ListUserAttempts(c.Request.Context(), userID, companyID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, attempts)
}
