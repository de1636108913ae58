package handlers

import (
	"errors"
	"strings"

	"restaurant-layout/internal/layout/codec"
	"restaurant-layout/internal/layout/models"
	"restaurant-layout/internal/layout/selection"
	"restaurant-layout/internal/layout/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Error mapping
// ============================================================

// writeError maps domain errors to HTTP statuses.
func writeError(c fiber.Ctx, err error) error {
	var (
		parseErr *codec.ParseError
		kindErr  *codec.UnknownKindError
		valErrs  validator.ValidationErrors
	)

	switch {
	case errors.As(err, &parseErr):
		body := fiber.Map{"error": parseErr.Error()}
		if len(parseErr.Fields) > 0 {
			fields := make([]fiber.Map, 0, len(parseErr.Fields))
			for _, f := range parseErr.Fields {
				fields = append(fields, fiber.Map{"field": f.Field, "message": f.Message})
			}
			body["fields"] = fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &kindErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": kindErr.Error(),
			"index": kindErr.Index,
			"kind":  kindErr.Kind,
		})
	case errors.Is(err, models.ErrUnknownKind):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &valErrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": describeValidation(valErrs),
		})
	case errors.Is(err, errBadRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrSnapshotNotFound),
		errors.Is(err, service.ErrNoSnapshot):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidName):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, selection.ErrNothingSelected),
		errors.Is(err, service.ErrNothingPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}

var errBadRequest = errors.New("bad request")

func describeValidation(errs validator.ValidationErrors) []fiber.Map {
	out := make([]fiber.Map, 0, len(errs))
	for _, fe := range errs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out = append(out, fiber.Map{
			"field": strings.ToLower(fe.Field()),
			"rule":  rule,
		})
	}
	return out
}
