package handlers

import (
	"net/http"

	"quiz-platform-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

type CreateCompanyRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255" example:"Acme Corp"`
	Description string `json:"description" example:"We make everything"`
	IsHidden    bool   `json:"is_hidden" example:"false"`
}

type UpdateCompanyRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255" example:"Acme Corp"`
	Description *string `json:"description" example:"We make everything"`
	IsHidden    *bool   `json:"is_hidden" example:"true"`
}

// CreateCompany godoc
// @Summary      Create a company
// @Description  The creator becomes the company owner
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateCompanyRequest true "Company data"
// @Success      201 {object} Company
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	company, err := h.companyService.Create(userID, req.Title, req.Description, req.IsHidden)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, company)
}

// ListCompanies godoc
// @Summary      List visible companies
// @Description  Hidden companies appear only for their members
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Company
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	userID := c.GetUint("user_id")

	companies, err := h.companyService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, companies)
}

// GetCompany godoc
// @Summary      Get a company by id
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {object} Company
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// UpdateCompany godoc
// @Summary      Update a company
// @Description  Owner only
// @Tags         companies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        request body UpdateCompanyRequest true "Fields to update"
// @Success      200 {object} Company
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id} [patch]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	company, err := h.companyService.Update(companyID, userID, req.Title, req.Description, req.IsHidden)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, company)
}

// DeleteCompany godoc
// @Summary      Delete a company
// @Description  Owner only; removes quizzes, attempts, members and invites
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Delete(companyID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "company deleted"})
}

// ListMembers godoc
// @Summary      List company members
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {array} CompanyMember
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/members [get]
func (h *CompanyHandler) ListMembers(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	members, err := h.companyService.Members(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}

// KickMember godoc
// @Summary      Remove a member from a company
// @Description  Owner only; the owner cannot be removed
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        user_id path int true "User ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/members/{user_id} [delete]
func (h *CompanyHandler) KickMember(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.companyService.Kick(companyID, ownerID, targetID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "member removed"})
}

// LeaveCompany godoc
// @Summary      Leave a company
// @Description  The owner cannot leave their own company
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/leave [delete]
func (h *CompanyHandler) LeaveCompany(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.companyService.Leave(companyID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "left the company"})
}

// ListAdmins godoc
// @Summary      List company admins
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Success      200 {array} CompanyMember
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/admins [get]
func (h *CompanyHandler) ListAdmins(c *gin.Context) {
	userID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	admins, err := h.companyService.Admins(companyID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

// PromoteAdmin godoc
// @Summary      Grant a member the admin role
// @Description  Owner only
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        user_id path int true "User ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/admins/{user_id} [post]
func (h *CompanyHandler) PromoteAdmin(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.companyService.SetAdmin(companyID, ownerID, targetID, true); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "admin role granted"})
}

// DemoteAdmin godoc
// @Summary      Revoke a member's admin role
// @Description  Owner only
// @Tags         companies
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Company ID"
// @Param        user_id path int true "User ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/companies/{id}/admins/{user_id} [delete]
func (h *CompanyHandler) DemoteAdmin(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	companyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.companyService.SetAdmin(companyID, ownerID, targetID, false); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "admin role revoked"})
}
