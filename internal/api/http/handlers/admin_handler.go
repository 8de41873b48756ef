package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/delivery-service/internal/api/dto"
	"github.com/spec-kit/delivery-service/internal/auth"
	"github.com/spec-kit/delivery-service/internal/repository"
	"github.com/spec-kit/delivery-service/internal/service"
	apperrors "github.com/spec-kit/delivery-service/pkg/util"
)

// AdminHandler exposes admin creation, bootstrap, and account listings.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// CreateAdmin handles POST /api/admin/create (admin bearer token).
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	req, err := parseAdminRequest(c)
	if err != nil {
		return err
	}

	var createdBy string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		createdBy = principal.User.ID
	}

	admin, token, _, err := h.admin.CreateAdmin(c.UserContext(), adminInput(req), createdBy)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperrors.NewConflict("Email already registered", nil)
		}
		return err
	}
	return respond(c, http.StatusCreated, dto.NewUserResponse(admin), "", token)
}

// Bootstrap handles POST /api/admin/bootstrap (unauthenticated, guarded).
func (h *AdminHandler) Bootstrap(c *fiber.Ctx) error {
	req, err := parseAdminRequest(c)
	if err != nil {
		return err
	}

	admin, token, _, err := h.admin.Bootstrap(c.UserContext(), adminInput(req))
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return apperrors.NewConflict("Email already registered", nil)
		}
		return err
	}
	return respond(c, http.StatusCreated, dto.NewUserResponse(admin), "", token)
}

// ListUsers handles GET /api/admin/users (admin bearer token).
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	listing, err := h.admin.ListCustomers(c.UserContext(), searchQuery(c), pageParam(c), limitParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, listResponse(listing), "", "")
}

// ListAgents handles GET /api/admin/agents (admin bearer token).
func (h *AdminHandler) ListAgents(c *fiber.Ctx) error {
	listing, err := h.admin.ListAgents(c.UserContext(), searchQuery(c), pageParam(c), limitParam(c))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, listResponse(listing), "", "")
}

func parseAdminRequest(c *fiber.Ctx) (dto.AdminCreateRequest, error) {
	var req dto.AdminCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return req, apperrors.NewValidationError("invalid payload", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.Password == "" || req.Phone == "" || req.Department == "" {
		return req, apperrors.NewValidationError(
			"Missing required fields: firstName,lastName,email,password,phone,department", nil)
	}
	return req, nil
}

func adminInput(req dto.AdminCreateRequest) service.AdminInput {
	return service.AdminInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Phone:       req.Phone,
		Department:  req.Department,
		Permissions: req.Permissions,
	}
}

func listResponse(listing *service.Listing) dto.ListResponse {
	items := make([]dto.UserResponse, 0, len(listing.Items))
	for _, user := range listing.Items {
		items = append(items, dto.NewUserResponse(user))
	}
	return dto.ListResponse{
		Items: items,
		Total: listing.Total,
		Page:  listing.Page,
		Limit: listing.Limit,
	}
}

func searchQuery(c *fiber.Ctx) string {
	return c.Query("q")
}

func pageParam(c *fiber.Ctx) int64 {
	return int64(c.QueryInt("page", 1))
}

func limitParam(c *fiber.Ctx) int64 {
	return int64(c.QueryInt("limit", 10))
}
