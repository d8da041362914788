package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"quiz-platform-backend/internal/models"
	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type User = models.User
type Company = models.Company
type CompanyMember = models.CompanyMember
type CompanyInvite = models.CompanyInvite
type Quiz = models.Quiz
type Question = models.Question
type Answer = models.Answer

var notFoundErrors = []error{
	services.ErrUserNotFound,
	services.ErrCompanyNotFound,
	services.ErrQuizNotFound,
	services.ErrQuestionNotFound,
	services.ErrAnswerNotFound,
	services.ErrAttemptNotFound,
	services.ErrInviteNotFound,
	services.ErrRequestNotFound,
	services.ErrResultsNotFound,
	services.ErrMemberNotFound,
}

var invalidStateErrors = []error{
	services.ErrEmailTaken,
	services.ErrCompanyTitleTaken,
	services.ErrQuizTitleTaken,
	services.ErrQuestionTitleTaken,
	services.ErrAnswerTitleTaken,
	services.ErrQuizNotReady,
	services.ErrNoAttemptsLeft,
	services.ErrAttemptOngoing,
	services.ErrAttemptCompleted,
	services.ErrQuestionNotInQuiz,
	services.ErrAnswerNotInQuestion,
	services.ErrAlreadyMember,
	services.ErrInviteExists,
	services.ErrOwnerCannotLeave,
	services.ErrCannotModifyOwner,
}

// respondError maps service sentinels onto HTTP statuses: missing entities
// are 404, insufficient standing is 403, state conflicts are 400, anything
// unrecognized is 500.
func respondError(c *gin.Context, err error) {
	for _, sentinel := range notFoundErrors {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
	}
	if errors.Is(err, services.ErrForbidden) {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		return
	}
	for _, sentinel := range invalidStateErrors {
		if errors.Is(err, sentinel) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}

// parseIDParam reads a numeric path parameter, writing the 400 itself when
// the value is not a valid id.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name + " parameter"})
		return 0, false
	}
	return uint(id), true
}

func parseQueryID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}
