package dto

import (
	"travelkeep/domain/models"
)

// UserToUserResponse converts a User model to response DTO
func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

// PlaceToResponse converts a Place model to response DTO
func PlaceToResponse(place *models.Place) PlaceResponse {
	return PlaceResponse{
		ID:          place.ID,
		Name:        place.Name,
		Location:    place.Location,
		Description: place.Description,
		PhotoCount:  place.PhotoCount,
		CreatedAt:   place.CreatedAt,
	}
}

// PlacesToListResponse converts place models to the list response
func PlacesToListResponse(places []models.Place) PlaceListResponse {
	resp := PlaceListResponse{Places: make([]PlaceResponse, 0, len(places))}
	for i := range places {
		resp.Places = append(resp.Places, PlaceToResponse(&places[i]))
	}
	return resp
}

// PhotoToResponse converts a Photo model to response DTO
func PhotoToResponse(photo *models.Photo) PhotoResponse {
	return PhotoResponse{
		ID:          photo.ID,
		URL:         photo.URL,
		Name:        photo.Name,
		ContentType: photo.ContentType,
		Size:        photo.Size,
		UploadedAt:  photo.UploadedAt,
	}
}

// PhotosToResponses converts photo models to response DTOs
func PhotosToResponses(photos []models.Photo) []PhotoResponse {
	resp := make([]PhotoResponse, 0, len(photos))
	for i := range photos {
		resp = append(resp, PhotoToResponse(&photos[i]))
	}
	return resp
}
