package handlers

import (
	"net/http"

	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type InviteHandler struct {
	inviteService *services.InviteService
}

func NewInviteHandler(inviteService *services.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

type InviteUserRequest struct {
	UserID uint `json:"user_id" binding:"required" example:"42"`
}

// InviteUser godoc
// @Summary      Invite a user to a company
// @Description  Owner only; fails if the user is already a member or has a pending invite
// @Tags         invites
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        request body InviteUserRequest true "User to invite"
// @Success      201 {object} CompanyInvite
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/invitations [post]
func (h *InviteHandler) InviteUser(c *gin.Context) {
	senderID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req InviteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	invite, err := h.inviteService.Invite(companyID, senderID, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invite)
}

// RequestMembership godoc
// @Summary      Request to join a company
// @Description  Fails if the caller is already a member or has a pending request
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      201 {object} CompanyInvite
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/requests [post]
func (h *InviteHandler) RequestMembership(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := h.inviteService.Request(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// CompanyInvitations godoc
// @Summary      List a company's pending invitations
// @Description  Owner only
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {array} CompanyInvite
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/invitations [get]
func (h *InviteHandler) CompanyInvitations(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	invites, err := h.inviteService.CompanyInvitations(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invites)
}

// CompanyRequests godoc
// @Summary      List a company's pending membership requests
// @Description  Owner only
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {array} CompanyInvite
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/requests [get]
func (h *InviteHandler) CompanyRequests(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	requests, err := h.inviteService.CompanyRequests(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// MyInvitations godoc
// @Summary      List invitations received by the authenticated user
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} CompanyInvite
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/me/invitations [get]
func (h *InviteHandler) MyInvitations(c *gin.Context) {
	userID := c.GetUint("user_id")

	invites, err := h.inviteService.UserInvitations(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invites)
}

// MyRequests godoc
// @Summary      List membership requests sent by the authenticated user
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} CompanyInvite
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/auth/me/requests [get]
func (h *InviteHandler) MyRequests(c *gin.Context) {
	userID := c.GetUint("user_id")

	requests, err := h.inviteService.UserRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// AcceptInvitation godoc
// @Summary      Accept a received invitation
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invitation ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/invitations/{id}/accept [post]
func (h *InviteHandler) AcceptInvitation(c *gin.Context) {
	userID := c.GetUint("user_id")
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.AcceptInvitation(inviteID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "invitation accepted"})
}

// DeclineInvitation godoc
// @Summary      Decline a received invitation
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invitation ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/invitations/{id}/decline [post]
func (h *InviteHandler) DeclineInvitation(c *gin.Context) {
	userID := c.GetUint("user_id")
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.DeclineInvitation(inviteID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "invitation declined"})
}

// CancelInvitation godoc
// @Summary      Cancel a sent invitation
// @Description  Only the sender can cancel
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Invitation ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/invitations/{id}/cancel [post]
func (h *InviteHandler) CancelInvitation(c *gin.Context) {
	userID := c.GetUint("user_id")
	inviteID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.CancelInvitation(inviteID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "invitation cancelled"})
}

// AcceptRequest godoc
// @Summary      Accept a membership request
// @Description  Company owner only
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/requests/{id}/accept [post]
func (h *InviteHandler) AcceptRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.AcceptRequest(requestID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "request accepted"})
}

// DeclineRequest godoc
// @Summary      Decline a membership request
// @Description  Company owner only
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/requests/{id}/decline [post]
func (h *InviteHandler) DeclineRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.DeclineRequest(requestID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "request declined"})
}

// CancelRequest godoc
// @Summary      Cancel a sent membership request
// @Description  Only the sender can cancel
// @Tags         invites
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Request ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/requests/{id}/cancel [post]
func (h *InviteHandler) CancelRequest(c *gin.Context) {
	userID := c.GetUint("user_id")
	requestID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.inviteService.CancelRequest(requestID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "request cancelled"})
}
