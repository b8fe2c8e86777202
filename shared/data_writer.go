package shared

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

var jsonAPI = sonic.Config{
	EscapeHTML:       false,
	SortMapKeys:      false,
	CompactMarshaler: true,
	NoNullSliceOrMap: true,
}.Froze()

var internalErrorResponse = mustMarshal(ErrorResponse{Error: InternalErrorMessage})

func mustMarshal(v interface{}) []byte {
	b, _ := jsonAPI.Marshal(v)
	return b
}

// JSONMarshal and JSONUnmarshal plug sonic into fiber.Config.
func JSONMarshal(v interface{}) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

func JSONUnmarshal(data []byte, v interface{}) error {
	return jsonAPI.Unmarshal(data, v)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, data interface{}) error {
	body, err := jsonAPI.Marshal(data)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, data)
}

func ResponseError(c *fiber.Ctx, httpCode int, message string) error {
	if httpCode == fiber.StatusInternalServerError {
		return ResponseInternalError(c)
	}
	return ResponseJSON(c, httpCode, ErrorResponse{Error: message})
}

func ResponseBadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Bad Request"
	}
	return ResponseError(c, fiber.StatusBadRequest, message)
}

func ResponseNotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Not Found"
	}
	return ResponseError(c, fiber.StatusNotFound, message)
}

// ResponseInternalError never echoes the cause back to the client.
func ResponseInternalError(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).Send(internalErrorResponse)
}
