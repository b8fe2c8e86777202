package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/mooc_api/dto"
	"github.com/lac-hong-legacy/mooc_api/shared"
)

type SessionHandler struct {
	sessionSvc SessionServiceInterface
}

func NewSessionHandler(sessionSvc SessionServiceInterface) *SessionHandler {
	return &SessionHandler{
		sessionSvc: sessionSvc,
	}
}

// @Summary Start Session
// @Description Creates a learner session with module 1 unlocked
// @Tags session
// @Accept  json
// @Produce json
// @Param startSessionRequest body dto.StartSessionRequest true "Start session request"
// @Success 200 {object} dto.StartSessionResponse
// @Failure 400 {object} shared.ErrorResponse
// @Router /api/session/start [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	session, err := h.sessionSvc.CreateSession(c.UserContext(), req.UserName)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.StartSessionResponse{
		SessionID: session.ID,
		UserName:  session.UserName,
	})
}

// @Summary Get Session
// @Description Returns the full progress record of a session
// @Tags session
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} model.Session
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/session/{sessionId} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.sessionSvc.GetSession(c.UserContext(), c.Params(shared.SessionIDParam))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, session)
}

// @Summary Get Session Modules
// @Description Returns the per-module status of a session in unlock order
// @Tags session
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {array} model.ModuleState
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/session/{sessionId}/modules [get]
func (h *SessionHandler) GetModules(c *fiber.Ctx) error {
	modules, err := h.sessionSvc.GetModules(c.UserContext(), c.Params(shared.SessionIDParam))
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, modules)
}

// @Summary Complete Module
// @Description Marks a module completed and unlocks the next one
// @Tags session
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} dto.CompleteModuleResponse
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/session/{sessionId}/module/{moduleId}/complete [post]
func (h *SessionHandler) CompleteModule(c *fiber.Ctx) error {
	moduleID, err := c.ParamsInt(shared.ModuleIDParam)
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid module id")
	}

	modules, allCompleted, err := h.sessionSvc.CompleteModule(c.UserContext(), c.Params(shared.SessionIDParam), moduleID)
	if err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.CompleteModuleResponse{
		Success:      true,
		AllCompleted: allCompleted,
		Modules:      modules,
	})
}

// @Summary Submit Quiz
// @Description Records that the external quiz was finished; answers are not scored
// @Tags quiz
// @Accept  json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param quizSubmission body dto.QuizSubmission false "Quiz answers"
// @Success 200 {object} dto.QuizAckResponse
// @Failure 400 {object} shared.ErrorResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/session/{sessionId}/quiz/submit [post]
func (h *SessionHandler) SubmitQuiz(c *fiber.Ctx) error {
	sessionID := c.Params(shared.SessionIDParam)

	// an unknown session is reported before anything about the body
	if _, err := h.sessionSvc.GetSession(c.UserContext(), sessionID); err != nil {
		return err
	}

	var req dto.QuizSubmission
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	if err := h.sessionSvc.SubmitQuiz(c.UserContext(), sessionID, req); err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.QuizAckResponse{
		Success:  true,
		Message:  "Quiz completed successfully",
		QuizType: shared.QuizTypeGenially,
	})
}

// @Summary Complete Quiz
// @Description Marks the external quiz as completed
// @Tags quiz
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.QuizAckResponse
// @Failure 404 {object} shared.ErrorResponse
// @Router /api/session/{sessionId}/quiz/complete [post]
func (h *SessionHandler) CompleteQuiz(c *fiber.Ctx) error {
	if err := h.sessionSvc.CompleteQuizManual(c.UserContext(), c.Params(shared.SessionIDParam)); err != nil {
		return err
	}

	return shared.ResponseOK(c, dto.QuizAckResponse{
		Success: true,
		Message: "Quiz marked as completed",
	})
}

// bindRequest decodes an optional JSON body into req and validates it.
func bindRequest(c *fiber.Ctx, req dto.Validator) error {
	if err := parseOptionalBody(c, req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, dto.ValidationMessage(err))
	}
	return nil
}

// parseOptionalBody decodes a JSON body when one was sent. An empty body
// leaves out untouched so field validation reports what is missing.
func parseOptionalBody(c *fiber.Ctx, out interface{}) error {
	body := c.Body()
	if len(body) == 0 {
		return nil
	}
	if err := shared.JSONUnmarshal(body, out); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	return nil
}
