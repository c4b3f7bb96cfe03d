// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"jokerclub/internal/models"
	"jokerclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

type bookSessionRequest struct {
	ConsultantID    uint      `json:"consultant_id"`
	SessionTime     time.Time `json:"session_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ClientNotes     string    `json:"client_notes,omitempty"`
}

type updateSessionRequest struct {
	Status          string    `json:"status,omitempty"`
	MeetingLink     string    `json:"meeting_link,omitempty"`
	SessionTime     time.Time `json:"session_time,omitempty"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
}

// BookConsultingSession handles POST /api/consulting/sessions
func (s *Server) BookConsultingSession(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req bookSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.consultingService.BookSession(ctx, service.BookSessionInput{
		ClientID:        userID,
		ConsultantID:    req.ConsultantID,
		SessionTime:     req.SessionTime,
		DurationMinutes: req.DurationMinutes,
		ClientNotes:     req.ClientNotes,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetMyConsultingSessions handles GET /api/consulting/sessions
func (s *Server) GetMyConsultingSessions(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	sessions, err := s.consultingService.ListMySessions(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(sessions)
}

// GetAllConsultingSessions handles GET /api/admin/consulting/sessions
func (s *Server) GetAllConsultingSessions(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	sessions, err := s.consultingService.ListAllSessions(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(sessions)
}

// UpdateConsultingSession handles PUT /api/admin/consulting/sessions/:id
func (s *Server) UpdateConsultingSession(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateSessionRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	session, err := s.consultingService.UpdateSession(ctx, service.UpdateSessionInput{
		UserID:          userID,
		SessionID:       id,
		Status:          req.Status,
		MeetingLink:     req.MeetingLink,
		SessionTime:     req.SessionTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.JSON(session)
}
