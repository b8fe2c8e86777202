package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/mooc_api/shared"
)

type AssetHandler struct {
	assetSvc AssetServiceInterface
}

func NewAssetHandler(assetSvc AssetServiceInterface) *AssetHandler {
	return &AssetHandler{
		assetSvc: assetSvc,
	}
}

// @Summary Serve Video
// @Description Streams a module video or redirects to where it is hosted
// @Tags media
// @Produce video/mp4
// @Param filename path string true "Video file name"
// @Success 200
// @Success 302
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/videos/{filename} [get]
func (h *AssetHandler) ServeVideo(c *fiber.Ctx) error {
	return h.serve(c, shared.AssetKindVideos)
}

// @Summary Serve Comic Page
// @Description Streams a comic page image or redirects to where it is hosted
// @Tags media
// @Produce image/jpeg
// @Param filename path string true "Comic image file name"
// @Success 200
// @Success 302
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/comics/{filename} [get]
func (h *AssetHandler) ServeComic(c *fiber.Ctx) error {
	return h.serve(c, shared.AssetKindComics)
}

func (h *AssetHandler) serve(c *fiber.Ctx, kind string) error {
	location, err := h.assetSvc.Resolve(c.UserContext(), kind, c.Params(shared.FilenameParam))
	if err != nil {
		return err
	}

	if location.IsRedirect() {
		return c.Redirect(location.RedirectURL, fiber.StatusFound)
	}

	if err := c.SendFile(location.FilePath); err != nil {
		return err
	}
	if location.ContentType != "" {
		c.Set(fiber.HeaderContentType, location.ContentType)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s", location.Filename))
	if kind == shared.AssetKindVideos {
		c.Set(fiber.HeaderAcceptRanges, "bytes")
	}
	return nil
}
