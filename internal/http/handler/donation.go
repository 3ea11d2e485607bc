package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"foodshare/internal/http/middleware"
	"foodshare/internal/model"
	"foodshare/internal/service"
)

// donationView is the response shape of a donation: the stored record plus the expiry
// classification computed at read time.
type donationView struct {
	*model.Donation
	Expired bool `json:"expired"`
}

func viewOf(d *model.Donation, now time.Time) donationView {
	return donationView{Donation: d, Expired: d.Expired(now)}
}

func viewsOf(items []model.Donation, now time.Time) []donationView {
	out := make([]donationView, 0, len(items))
	for i := range items {
		out = append(out, viewOf(&items[i], now))
	}
	return out
}

type messageResponse struct {
	Message string `json:"message"`
}

// donationID returns the canonical form of the :id path parameter.
func donationID(c *fiber.Ctx) (string, bool) {
	u, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return "", false
	}
	return u.String(), true
}

func invalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func invalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
}

// ListDonations returns every donation, newest first.
//
// @Summary  List donations
// @Tags     donations
// @Produce  json
// @Success  200 {array}  donationView
// @Failure  500 {object} errorPayload
// @Router   /donations [get]
func ListDonations(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewsOf(items, time.Now()))
	}
}

// ListUserDonations returns donations the caller donated or claimed.
//
// @Summary  List my donations
// @Tags     donations
// @Produce  json
// @Security BearerAuth
// @Success  200 {array}  donationView
// @Failure  401 {object} errorPayload
// @Router   /donations/user [get]
func ListUserDonations(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.ListForUser(c.UserContext(), middleware.IdentityFrom(c).ID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewsOf(items, time.Now()))
	}
}

// CreateDonation posts a new donation owned by the caller.
//
// @Summary  Create donation
// @Tags     donations
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body     service.CreateDonationInput true "Donation"
// @Success  201  {object} donationView
// @Failure  400  {object} errorPayload
// @Failure  401  {object} errorPayload
// @Router   /donations [post]
func CreateDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateDonationInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}

		d, err := svc.Create(c.UserContext(), in, middleware.IdentityFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(viewOf(d, time.Now()))
	}
}

// GetDonation returns a single donation.
//
// @Summary  Get donation
// @Tags     donations
// @Produce  json
// @Param    id  path     string true "Donation ID"
// @Success  200 {object} donationView
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /donations/{id} [get]
func GetDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}
		d, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewOf(d, time.Now()))
	}
}

// UpdateDonation applies a partial edit. Status cannot be changed here.
//
// @Summary  Update donation
// @Tags     donations
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path     string                      true "Donation ID"
// @Param    body body     service.UpdateDonationInput true "Fields to change"
// @Success  200  {object} donationView
// @Failure  400  {object} errorPayload
// @Failure  401  {object} errorPayload
// @Failure  404  {object} errorPayload
// @Router   /donations/{id} [put]
func UpdateDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}
		var in service.UpdateDonationInput
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}

		d, err := svc.Update(c.UserContext(), id, in, middleware.IdentityFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewOf(d, time.Now()))
	}
}

// DeleteDonation removes a donation in any state.
//
// @Summary  Delete donation
// @Tags     donations
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Donation ID"
// @Success  200 {object} messageResponse
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /donations/{id} [delete]
func DeleteDonation(svc service.DonationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}
		if err := svc.Remove(c.UserContext(), id, middleware.IdentityFrom(c)); err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(messageResponse{Message: "Donation removed"})
	}
}

// ClaimDonation assigns the caller as recipient of an available donation.
//
// @Summary  Claim donation
// @Tags     donations
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Donation ID"
// @Success  200 {object} donationView
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /donations/{id}/claim [put]
func ClaimDonation(svc service.DonationService) fiber.Handler {
	return transition(svc, service.DonationService.Claim)
}

// ExpireDonation withdraws an available donation.
//
// @Summary  Expire donation
// @Tags     donations
// @Produce  json
// @Security BearerAuth
// @Param    id  path     string true "Donation ID"
// @Success  200 {object} donationView
// @Failure  400 {object} errorPayload
// @Failure  401 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Router   /donations/{id}/expire [put]
func ExpireDonation(svc service.DonationService) fiber.Handler {
	return transition(svc, service.DonationService.Expire)
}

type transitionFunc func(svc service.DonationService, ctx context.Context, id string, actor model.Identity) (*model.Donation, error)

// transition resolves apply against svc per request, so a handler can be built before svc is usable.
func transition(svc service.DonationService, apply transitionFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}
		d, err := apply(svc, c.UserContext(), id, middleware.IdentityFrom(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewOf(d, time.Now()))
	}
}
