package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/mooc_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{
		contentSvc: contentSvc,
	}
}

// @Summary Get Module Content
// @Description Returns the video, quiz or comic payload of a module
// @Tags module
// @Produce json
// @Param moduleId path int true "Module ID"
// @Success 200 {object} dto.VideoContentResponse
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/module/{moduleId}/content [get]
func (h *ContentHandler) GetModuleContent(c *fiber.Ctx) error {
	moduleID, err := c.ParamsInt(shared.ModuleIDParam)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid module id")
	}

	content, err := h.contentSvc.GetModuleContent(c.UserContext(), moduleID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, content)
}
