package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"travelkeep/domain/apperrors"
)

// SuccessResponse writes the standard success envelope
func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// CreatedResponse writes the success envelope with a 201 status
func CreatedResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the standard error envelope
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// UnauthorizedResponse writes a 401 error envelope
func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// DomainErrorResponse maps a domain error to its HTTP status and error code.
// ReconcileFailed gets its own message so the frontend can explain that the
// photos are saved and only the count is pending.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	code := apperrors.Code(err)

	var status int
	var message string
	switch code {
	case apperrors.CodeValidation, apperrors.CodeInvalidInput:
		status = fiber.StatusBadRequest
		message = "Invalid input"
	case apperrors.CodeNotFound:
		status = fiber.StatusNotFound
		message = "Place not found"
	case apperrors.CodeUnauthorized:
		status = fiber.StatusUnauthorized
		message = "Not authorized"
	case apperrors.CodeStorageUnavailable:
		status = fiber.StatusServiceUnavailable
		message = "Storage is temporarily unavailable, please retry"
	case apperrors.CodeUploadFailed:
		status = fiber.StatusBadGateway
		message = "Photo upload failed, no photos were saved, please retry"
	case apperrors.CodeReconcileFailed:
		status = fiber.StatusBadGateway
		message = "Photos saved, refresh to see the updated count"
	default:
		status = fiber.StatusInternalServerError
		message = "An error occurred"
	}

	var validation *apperrors.ValidationError
	body := fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	}
	if code != "" {
		body["code"] = code
	}
	if errors.As(err, &validation) {
		body["field"] = validation.Field
	}
	return c.Status(status).JSON(body)
}
