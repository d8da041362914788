package handlers

import (
	"net/http"

	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	quizService *services.QuizService
}

func NewQuestionHandler(quizService *services.QuizService) *QuestionHandler {
	return &QuestionHandler{quizService: quizService}
}

type CreateQuestionRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"What is the capital of France?"`
}

type UpdateQuestionRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255" example:"What is the capital of Spain?"`
}

type CreateAnswerRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=255" example:"Paris"`
	IsCorrect bool   `json:"is_correct" example:"true"`
}

type UpdateAnswerRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255" example:"Madrid"`
	IsCorrect *bool   `json:"is_correct" example:"false"`
}

// CreateQuestion godoc
// @Summary      Add a question to a quiz
// @Description  Admin or owner only
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.quizService.CreateQuestion(quizID, userID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a question's title
// @Description  Admin or owner only
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body UpdateQuestionRequest true "Question data"
// @Success      200 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [patch]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.quizService.UpdateQuestion(questionID, userID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Description  Admin or owner only; the quiz status is recomputed
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	userID := c.GetUint("user_id")
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuestion(questionID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}

// CreateAnswer godoc
// @Summary      Add an answer option to a question
// @Description  Admin or owner only; marking it correct unflags the question's other answers
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body CreateAnswerRequest true "Answer data"
// @Success      201 {object} Answer
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/questions/{id}/answers [post]
func (h *QuestionHandler) CreateAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")
	questionID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answer, err := h.quizService.CreateAnswer(questionID, userID, req.Title, req.IsCorrect)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, answer)
}

// UpdateAnswer godoc
// @Summary      Update an answer option
// @Description  Admin or owner only
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Answer ID"
// @Param        request body UpdateAnswerRequest true "Fields to update"
// @Success      200 {object} Answer
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/answers/{id} [patch]
func (h *QuestionHandler) UpdateAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")
	answerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answer, err := h.quizService.UpdateAnswer(answerID, userID, req.Title, req.IsCorrect)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// DeleteAnswer godoc
// @Summary      Delete an answer option
// @Description  Admin or owner only; question and quiz statuses are recomputed
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Answer ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/answers/{id} [delete]
func (h *QuestionHandler) DeleteAnswer(c *gin.Context) {
	userID := c.GetUint("user_id")
	answerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteAnswer(answerID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "answer deleted"})
}
