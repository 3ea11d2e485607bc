package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"foodshare/internal/http/middleware"
	"foodshare/internal/service"
)

// UploadDonationPhoto attaches a photo (multipart/form-data, field name: photo).
//
// @Summary  Upload donation photo
// @Tags     donations
// @Accept   mpfd
// @Produce  json
// @Security BearerAuth
// @Param    id    path     string true "Donation ID"
// @Param    photo formData file   true "Image file"
// @Success  200   {object} donationView
// @Failure  400   {object} errorPayload
// @Failure  401   {object} errorPayload
// @Failure  404   {object} errorPayload
// @Router   /donations/{id}/photo [post]
func UploadDonationPhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}

		fh, err := c.FormFile("photo")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "PHOTO_REQUIRED", "photo is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		d, err := svc.Attach(c.UserContext(), id, middleware.IdentityFrom(c), f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(viewOf(d, time.Now()))
	}
}

// GetDonationPhoto redirects to a short-lived download URL for the photo.
//
// @Summary  Donation photo
// @Tags     donations
// @Param    id  path     string true "Donation ID"
// @Success  307
// @Failure  404 {object} errorPayload
// @Router   /donations/{id}/photo [get]
func GetDonationPhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := donationID(c)
		if !ok {
			return invalidID(c)
		}
		u, err := svc.URL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(u, fiber.StatusTemporaryRedirect)
	}
}
