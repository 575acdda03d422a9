package handlers

import (
	"taskboard/internal/cache"
	"taskboard/internal/service"
	"taskboard/internal/validation"
)

// Handler carries the wired services for all API endpoints.
type Handler struct {
	Tasks     *service.TaskService
	Auth      *service.AuthService
	Validator *validation.Validator
	Listing   *cache.ListingCache
}

func NewHandler(tasks *service.TaskService, auth *service.AuthService, v *validation.Validator, listing *cache.ListingCache) *Handler {
	return &Handler{
		Tasks:     tasks,
		Auth:      auth,
		Validator: v,
		Listing:   listing,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (string, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
