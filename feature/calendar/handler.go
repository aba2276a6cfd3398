package calendar

import (
	"errors"

	"rental-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for calendar synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the calendar routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/calendar")
	group.Post("/sync", h.HandleSyncListing)
	group.Post("/sync-all", h.HandleSyncAll)
	group.Put("/listings/:listingID/feed", h.HandleConfigureFeed)
}

type syncRequest struct {
	ListingID string `json:"listing_id"`
	FeedURL   string `json:"feed_url"`
	Force     bool   `json:"force"`
}

type feedRequest struct {
	FeedURL string `json:"feed_url"`
}

// HandleSyncListing triggers a sync run for one listing.
// @Summary Sync one listing
// @Description Fetch the listing's external calendar feed and reconcile its imported reservations. Set force to wipe and reimport.
// @Tags calendar
// @Accept json
// @Produce json
// @Param request body syncRequest true "Sync request"
// @Success 200 {object} models.SyncResult "Sync result"
// @Failure 400 {object} map[string]string "Missing listing ID or no feed configured"
// @Failure 404 {object} map[string]string "Listing not found"
// @Failure 409 {object} map[string]string "Sync already running for this listing"
// @Failure 502 {object} map[string]string "Feed unavailable"
// @Failure 500 {object} map[string]string "Sync failed"
// @Router /calendar/sync [post]
func (h *Handler) HandleSyncListing(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.ListingID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "missing listing_id",
		})
	}

	res, err := h.service.SyncListing(c.Context(), req.ListingID, req.FeedURL, req.Force)
	if err != nil {
		l.Error("calendar sync failed",
			zap.String("listing_id", req.ListingID), zap.Error(err))
		return c.Status(statusForSyncError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(res)
}

// HandleSyncAll triggers a fleet sync across every listing with a feed.
// @Summary Sync all listings
// @Description Run an incremental sync for every listing with a configured feed URL. Always returns an aggregate report, even if every listing failed.
// @Tags calendar
// @Produce json
// @Success 200 {object} models.FleetSyncResult "Aggregate fleet result"
// @Router /calendar/sync-all [post]
func (h *Handler) HandleSyncAll(c *fiber.Ctx) error {
	res := h.service.SyncAll(c.Context())
	return c.JSON(res)
}

// HandleConfigureFeed sets or clears a listing's feed URL.
// @Summary Configure calendar feed
// @Description Set the external ICS feed URL for a listing, or clear it with an empty URL.
// @Tags calendar
// @Accept json
// @Produce json
// @Param listingID path string true "Listing ID"
// @Param request body feedRequest true "Feed URL"
// @Success 200 {object} map[string]string "Updated"
// @Failure 400 {object} map[string]string "Invalid feed URL"
// @Failure 404 {object} map[string]string "Listing not found"
// @Router /calendar/listings/{listingID}/feed [put]
func (h *Handler) HandleConfigureFeed(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	listingID := c.Params("listingID")

	var req feedRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.service.ConfigureFeed(c.Context(), listingID, req.FeedURL); err != nil {
		l.Error("feed configuration failed",
			zap.String("listing_id", listingID), zap.Error(err))
		return c.Status(statusForSyncError(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "updated"})
}

// statusForSyncError maps the sync error taxonomy to HTTP status codes.
func statusForSyncError(err error) int {
	switch {
	case errors.Is(err, ErrListingNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrNoFeedConfigured), errors.Is(err, ErrInvalidFeedURL):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrSyncInProgress):
		return fiber.StatusConflict
	}

	var feedErr *FeedUnavailableError
	if errors.As(err, &feedErr) {
		return fiber.StatusBadGateway
	}

	return fiber.StatusInternalServerError
}
