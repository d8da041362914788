package services

import "errors"

// Sentinel errors shared across services. Handlers classify them with
// errors.Is to pick the HTTP status; anything unrecognized becomes a 500.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrInviteNotFound   = errors.New("invitation not found")
	ErrRequestNotFound  = errors.New("membership request not found")
	ErrResultsNotFound  = errors.New("attempt results not found or expired")
	ErrMemberNotFound   = errors.New("user is not a member of this company")

	ErrForbidden = errors.New("forbidden")

	ErrEmailTaken         = errors.New("email already taken")
	ErrCompanyTitleTaken  = errors.New("company title already taken")
	ErrQuizTitleTaken     = errors.New("quiz title already taken in this company")
	ErrQuestionTitleTaken = errors.New("question title already taken in this quiz")
	ErrAnswerTitleTaken   = errors.New("answer title already taken for this question")

	ErrQuizNotReady        = errors.New("this quiz is temporarily unavailable for completion")
	ErrNoAttemptsLeft      = errors.New("you've used all available attempts for this quiz")
	ErrAttemptOngoing      = errors.New("you already have an ongoing attempt with this quiz")
	ErrAttemptCompleted    = errors.New("you've already completed this attempt")
	ErrQuestionNotInQuiz   = errors.New("question does not belong to the attempt's quiz")
	ErrAnswerNotInQuestion = errors.New("answer does not belong to the question")

	ErrAlreadyMember     = errors.New("user is already a member of this company")
	ErrInviteExists      = errors.New("a pending invitation or request already exists")
	ErrOwnerCannotLeave  = errors.New("owner cannot leave their own company")
	ErrCannotModifyOwner = errors.New("the company owner's membership cannot be changed")
)
