// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"jokerclub/internal/models"
	"jokerclub/internal/visibility"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "userId" -> "Invalid user ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "userId" -> "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// isAdmin checks whether the given user has admin privileges.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	return s.isAdminByUserID(c.Context(), userID)
}

func (s *Server) isAdminByUserID(ctx context.Context, userID uint) (bool, error) {
	return s.roleRepo.IsAdmin(ctx, userID)
}

// viewerFromContext builds the visibility viewer for the authenticated user
// set by AuthRequired. A failed role lookup degrades to a non-admin viewer;
// admin is a privilege, so losing it on error is the safe direction.
func (s *Server) viewerFromContext(c *fiber.Ctx) visibility.Viewer {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return visibility.Anonymous
	}
	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		admin = false
	}
	return visibility.Viewer{UserID: userID, Authenticated: true, Admin: admin}
}

// optionalViewer builds a viewer for routes that serve both anonymous and
// authenticated requests.
func (s *Server) optionalViewer(c *fiber.Ctx) visibility.Viewer {
	userID, ok := s.optionalUserID(c)
	if !ok {
		return visibility.Anonymous
	}
	admin, err := s.isAdminByUserID(c.Context(), userID)
	if err != nil {
		admin = false
	}
	return visibility.Viewer{UserID: userID, Authenticated: true, Admin: admin}
}

// statusForError maps application error codes to HTTP status codes so
// handlers can surface service errors without switching on them one by one.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeUnauthorized:
		return fiber.StatusForbidden
	case models.CodeNotAuthenticated, models.CodeAuthExpired:
		return fiber.StatusUnauthorized
	case models.CodeDuplicateGrant:
		return fiber.StatusConflict
	case models.CodeAccessCheckFailed:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
