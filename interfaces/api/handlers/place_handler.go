package handlers

import (
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"travelkeep/domain/dto"
	"travelkeep/domain/services"
	"travelkeep/pkg/utils"
)

var validate = validator.New()

type PlaceHandler struct {
	placeService services.PlaceService
}

func NewPlaceHandler(placeService services.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		placeService: placeService,
	}
}

// ListPlaces returns the caller's places, newest first
func (h *PlaceHandler) ListPlaces(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	places, err := h.placeService.ListPlaces(c.Context(), user.ID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Places retrieved successfully", dto.PlacesToListResponse(places))
}

// CreatePlace creates a new place owned by the caller
func (h *PlaceHandler) CreatePlace(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	var req dto.CreatePlaceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := validate.Struct(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	place, err := h.placeService.CreatePlace(c.Context(), user.ID, services.CreatePlaceInput{
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, "Place created successfully", dto.PlaceToResponse(place))
}

// GetPlaceDetail returns one place with its photos
func (h *PlaceHandler) GetPlaceDetail(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	placeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid place ID", err)
	}

	detail, err := h.placeService.GetPlaceDetail(c.Context(), user.ID, placeID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, "Place retrieved successfully", dto.PlaceDetailResponse{
		Place:  dto.PlaceToResponse(detail.Place),
		Photos: dto.PhotosToResponses(detail.Photos),
	})
}

// UploadPhotos accepts a multipart batch under the "photos" field and runs
// the all-or-nothing upload pipeline for the place.
func (h *PlaceHandler) UploadPhotos(c *fiber.Ctx) error {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "Not authenticated")
	}

	placeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid place ID", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Multipart form is required", err)
	}

	fileHeaders := form.File["photos"]
	if len(fileHeaders) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "At least one photo is required", nil)
	}

	files := make([]services.FileInput, 0, len(fileHeaders))
	opened := make([]multipart.File, 0, len(fileHeaders))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read uploaded file", err)
		}
		opened = append(opened, f)

		files = append(files, services.FileInput{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Content:     f,
		})
	}

	result, err := h.placeService.UploadPhotos(c.Context(), user.ID, placeID, files)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.CreatedResponse(c, "Photos uploaded successfully", dto.UploadPhotosResponse{
		Place:  dto.PlaceToResponse(result.Place),
		Photos: dto.PhotosToResponses(result.Photos),
	})
}
