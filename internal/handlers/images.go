package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// PutImage handles PUT /v1/images/:key. The raw body is stored with the
// request Content-Type.
func (h *Handler) PutImage(c *fiber.Ctx) error {
	// Body is only valid for the lifetime of the handler
	data := append([]byte(nil), c.Body()...)

	res, err := h.images.Put(c.UserContext(), c.Params("key"), data, c.Get(fiber.HeaderContentType))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetImage handles GET /v1/images/:key
func (h *Handler) GetImage(c *fiber.Ctx) error {
	blob, err := h.images.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, blob.ContentType)
	c.Set("X-Blob-Backend", blob.Backend)
	return c.Send(blob.Data)
}

// DeleteImage handles DELETE /v1/images/:key
func (h *Handler) DeleteImage(c *fiber.Ctx) error {
	res, err := h.images.Delete(c.UserContext(), c.Params("key"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
