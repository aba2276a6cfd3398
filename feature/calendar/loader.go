package calendar

import (
	"github.com/gofiber/fiber/v2"
)

// Feature wires the calendar sync service into the application loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the calendar feature.
func NewFeature(service *Service) *Feature {
	return &Feature{handler: NewHandler(service)}
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "calendar"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
