package handlers

import (
	"net/http"

	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

type CreateQuizRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=255" example:"Onboarding Basics"`
	Description    string `json:"description" example:"Covers the first week"`
	CompletionTime int    `json:"completion_time" binding:"required,min=1" example:"15"`
}

type UpdateQuizRequest struct {
	Title          *string `json:"title" binding:"omitempty,min=1,max=255" example:"Onboarding Basics"`
	Description    *string `json:"description" example:"Covers the first week"`
	CompletionTime *int    `json:"completion_time" binding:"omitempty,min=1" example:"20"`
}

// ListCompanyQuizzes godoc
// @Summary      List a company's quizzes
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {array} Quiz
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/quizzes [get]
func (h *QuizHandler) ListCompanyQuizzes(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quizzes, err := h.quizService.ListCompanyQuizzes(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

// CreateQuiz godoc
// @Summary      Create a quiz
// @Description  Admin or owner only; completion_time is the attempt duration in minutes
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        request body CreateQuizRequest true "Quiz data"
// @Success      201 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/quizzes [post]
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.CreateQuiz(companyID, userID, req.Title, req.Description, req.CompletionTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetQuiz godoc
// @Summary      Get a quiz with questions and answers
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} Quiz
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizService.GetQuizByID(quizID, userID, services.AccessMember)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// UpdateQuiz godoc
// @Summary      Update a quiz
// @Description  Admin or owner only; a new completion time applies to future attempts
// @Tags         quizzes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Param        request body UpdateQuizRequest true "Fields to update"
// @Success      200 {object} Quiz
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [patch]
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, userID, req.Title, req.Description, req.CompletionTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quiz)
}

// DeleteQuiz godoc
// @Summary      Delete a quiz
// @Description  Admin or owner only; removes questions, answers and attempts
// @Tags         quizzes
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Quiz ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quizzes/{id} [delete]
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	userID := c.GetUint("user_id")
	quizID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.quizService.DeleteQuiz(quizID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "quiz deleted"})
}
