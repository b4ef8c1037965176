package apiv1

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Titan-M/mailsift/pkg/repository"
	"github.com/Titan-M/mailsift/pkg/types"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type EmailsGroup struct {
	routerGroup *echo.Group
	backend     repository.BackendRepository
}

type EmailResponse struct {
	ExternalID string `json:"external_id"`
	UserID     string `json:"user_id"`
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Body       string `json:"body"`
	Category   string `json:"category"`
	Priority   string `json:"priority"`
	Summary    string `json:"summary"`
	ReceivedAt string `json:"received_at"`
	CreatedAt  string `json:"created_at"`
}

type ListEmailsResponse struct {
	Emails []EmailResponse `json:"emails"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

func NewEmailsGroup(routerGroup *echo.Group, backend repository.BackendRepository) *EmailsGroup {
	g := &EmailsGroup{routerGroup: routerGroup, backend: backend}
	g.registerRoutes()
	return g
}

func (g *EmailsGroup) registerRoutes() {
	g.routerGroup.GET("", g.ListEmails)
	g.routerGroup.DELETE("/:id", g.DeleteEmail)
}

// ListEmails returns a user's classified emails, newest first, optionally
// filtered by category and priority.
func (g *EmailsGroup) ListEmails(c echo.Context) error {
	userId := c.Param("user_id")

	filter := types.EmailFilter{
		Category: c.QueryParam("category"),
		Priority: c.QueryParam("priority"),
		Page:     1,
		Limit:    defaultPageSize,
	}

	if filter.Category != "" && !types.Category(filter.Category).Valid() {
		return ErrorResponse(c, http.StatusBadRequest, "unknown category: "+filter.Category)
	}
	if filter.Priority != "" && !types.Priority(filter.Priority).Valid() {
		return ErrorResponse(c, http.StatusBadRequest, "unknown priority: "+filter.Priority)
	}

	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ErrorResponse(c, http.StatusBadRequest, "invalid page")
		}
		filter.Page = page
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ErrorResponse(c, http.StatusBadRequest, "invalid limit")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		filter.Limit = limit
	}

	emails, total, err := g.backend.ListEmails(c.Request().Context(), userId, filter)
	if err != nil {
		return ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}

	response := ListEmailsResponse{
		Emails: make([]EmailResponse, 0, len(emails)),
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	for i := range emails {
		response.Emails = append(response.Emails, emailToResponse(&emails[i]))
	}

	return SuccessResponse(c, response)
}

// DeleteEmail deletes an email by external ID
func (g *EmailsGroup) DeleteEmail(c echo.Context) error {
	userId := c.Param("user_id")
	externalId := c.Param("id")

	if err := g.backend.DeleteEmail(c.Request().Context(), userId, externalId); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrorResponse(c, http.StatusNotFound, "email not found")
		}
		return ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}

	return SuccessResponse(c, nil)
}

func emailToResponse(e *types.Email) EmailResponse {
	return EmailResponse{
		ExternalID: e.ExternalId,
		UserID:     e.UserId,
		Subject:    e.Subject,
		Sender:     e.Sender,
		Body:       e.Body,
		Category:   e.Category.String(),
		Priority:   e.Priority.String(),
		Summary:    e.Summary,
		ReceivedAt: e.ReceivedAt.Format(time.RFC3339),
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
	}
}
