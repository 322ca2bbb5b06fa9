package handler

import (
	"time"

	"exam-byte/internal/domain"
	"exam-byte/internal/dto"
	"exam-byte/internal/exam"
	"exam-byte/internal/logger"
	"exam-byte/internal/middleware"
	"exam-byte/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExamHandler handles exam session HTTP requests
type ExamHandler struct {
	exams  service.ExamService
	tokens service.TokenService
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(exams service.ExamService, tokens service.TokenService) *ExamHandler {
	return &ExamHandler{exams: exams, tokens: tokens}
}

func (h *ExamHandler) view(c *fiber.Ctx, snap exam.Snapshot, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(toSessionView(snap))
}

// StartSession godoc
// @Summary Start an exam session
// @Description Loads the requested paper (or the latest one, or the demo paper) and starts the countdown
// @Tags session
// @Accept json
// @Produce json
// @Param request body dto.StartSessionRequest false "Paper selection"
// @Success 201 {object} dto.StartSessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /sessions [post]
func (h *ExamHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return domain.NewInvalidInputError("invalid request body")
		}
	}

	snap, err := h.exams.StartSession(c.UserContext(), req.PaperID)
	if err != nil {
		return err
	}

	resp, err := h.withToken(snap)
	if err != nil {
		if endErr := h.exams.EndSession(c.UserContext(), snap.ID); endErr != nil {
			logger.Get().Warn("Failed to discard session after token error", zap.String("session_id", snap.ID), zap.Error(endErr))
		}
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// withToken issues a token that outlives the snapshot's countdown.
func (h *ExamHandler) withToken(snap exam.Snapshot) (dto.StartSessionResponse, error) {
	token, expiresAt, err := h.tokens.Issue(snap.ID, time.Duration(snap.Remaining)*time.Second)
	if err != nil {
		return dto.StartSessionResponse{}, err
	}
	return dto.StartSessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   toSessionView(snap),
	}, nil
}

// GetSession godoc
// @Summary Get the session view
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /session [get]
func (h *ExamHandler) GetSession(c *fiber.Ctx) error {
	snap, err := h.exams.GetSession(c.UserContext(), middleware.SessionID(c))
	return h.view(c, snap, err)
}

// GoTo godoc
// @Summary Jump to a question
// @Description Out-of-range indices, negative ones included, are clamped to the first or last question
// @Tags session
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.GoToRequest true "Target index"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/goto [post]
func (h *ExamHandler) GoTo(c *fiber.Ctx) error {
	var req dto.GoToRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if req.Index == nil {
		return domain.ValidationErrors{domain.NewMissingFieldError("index")}
	}
	snap, err := h.exams.Navigate(c.UserContext(), middleware.SessionID(c), *req.Index)
	return h.view(c, snap, err)
}

// Next godoc
// @Summary Move to the next question
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/next [post]
func (h *ExamHandler) Next(c *fiber.Ctx) error {
	snap, err := h.exams.Step(c.UserContext(), middleware.SessionID(c), 1)
	return h.view(c, snap, err)
}

// Prev godoc
// @Summary Move to the previous question
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/prev [post]
func (h *ExamHandler) Prev(c *fiber.Ctx) error {
	snap, err := h.exams.Step(c.UserContext(), middleware.SessionID(c), -1)
	return h.view(c, snap, err)
}

// SetAnswer godoc
// @Summary Answer the current question
// @Description Single-choice answers must be an option letter; numerical answers must be a number
// @Tags session
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.AnswerRequest true "Answer"
// @Success 200 {object} dto.SessionView
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/answer [put]
func (h *ExamHandler) SetAnswer(c *fiber.Ctx) error {
	var req dto.AnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	snap, err := h.exams.SetAnswer(c.UserContext(), middleware.SessionID(c), req.Value)
	return h.view(c, snap, err)
}

// ClearAnswer godoc
// @Summary Clear the answer of the current question
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/answer [delete]
func (h *ExamHandler) ClearAnswer(c *fiber.Ctx) error {
	snap, err := h.exams.ClearAnswer(c.UserContext(), middleware.SessionID(c))
	return h.view(c, snap, err)
}

// ToggleSidebar godoc
// @Summary Toggle the question palette
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/sidebar [post]
func (h *ExamHandler) ToggleSidebar(c *fiber.Ctx) error {
	snap, err := h.exams.ToggleSidebar(c.UserContext(), middleware.SessionID(c))
	return h.view(c, snap, err)
}

// ConfirmSubmit godoc
// @Summary Open the submit confirmation
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/submit/confirm [post]
func (h *ExamHandler) ConfirmSubmit(c *fiber.Ctx) error {
	snap, err := h.exams.RequestSubmit(c.UserContext(), middleware.SessionID(c))
	return h.view(c, snap, err)
}

// CancelSubmit godoc
// @Summary Close the submit confirmation
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.SessionView
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/submit/cancel [post]
func (h *ExamHandler) CancelSubmit(c *fiber.Ctx) error {
	snap, err := h.exams.CancelSubmit(c.UserContext(), middleware.SessionID(c))
	return h.view(c, snap, err)
}

// Submit godoc
// @Summary Submit the exam
// @Description Submitting twice returns the stored result
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /session/submit [post]
func (h *ExamHandler) Submit(c *fiber.Ctx) error {
	res, err := h.exams.Submit(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(toResultResponse(res))
}

// GetResult godoc
// @Summary Get the exam result
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /session/result [get]
func (h *ExamHandler) GetResult(c *fiber.Ctx) error {
	res, err := h.exams.GetResult(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(toResultResponse(res))
}

// Restart godoc
// @Summary Retake the same paper
// @Description Resets the countdown and returns a fresh token covering it
// @Tags session
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.StartSessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /session/restart [post]
func (h *ExamHandler) Restart(c *fiber.Ctx) error {
	snap, err := h.exams.Restart(c.UserContext(), middleware.SessionID(c))
	if err != nil {
		return err
	}
	resp, err := h.withToken(snap)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// EndSession godoc
// @Summary Discard the session
// @Tags session
// @Security ApiKeyAuth
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /session [delete]
func (h *ExamHandler) EndSession(c *fiber.Ctx) error {
	if err := h.exams.EndSession(c.UserContext(), middleware.SessionID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListAttempts godoc
// @Summary List submitted attempts for a paper
// @Tags papers
// @Produce json
// @Param id path string true "Paper ID"
// @Param limit query int false "Maximum attempts to return (default 20, max 100)"
// @Success 200 {object} dto.AttemptListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /papers/{id}/attempts [get]
func (h *ExamHandler) ListAttempts(c *fiber.Ctx) error {
	paperID, _ := c.Locals(middleware.ValidatedPaperIDKey).(string)
	limit, _ := c.Locals(middleware.ValidatedLimitKey).(int)
	if paperID == "" {
		paperID = c.Params("id")
	}

	attempts, err := h.exams.ListAttempts(c.UserContext(), paperID, limit)
	if err != nil {
		return err
	}

	resp := dto.AttemptListResponse{PaperID: paperID, Attempts: make([]dto.AttemptResponse, 0, len(attempts))}
	for _, a := range attempts {
		resp.Attempts = append(resp.Attempts, toAttemptResponse(a))
	}
	return c.JSON(resp)
}

// RegisterRoutes mounts the exam routes on the /api group.
func (h *ExamHandler) RegisterRoutes(api fiber.Router, vm *middleware.ValidationMiddleware) {
	api.Post("/sessions", h.StartSession)
	api.Get("/papers/:id/attempts", vm.ValidateAttemptListParams(), h.ListAttempts)

	session := api.Group("/session", middleware.SessionRequired(h.tokens))
	session.Get("/", h.GetSession)
	session.Delete("/", h.EndSession)
	session.Post("/goto", h.GoTo)
	session.Post("/next", h.Next)
	session.Post("/prev", h.Prev)
	session.Put("/answer", h.SetAnswer)
	session.Delete("/answer", h.ClearAnswer)
	session.Post("/sidebar", h.ToggleSidebar)
	session.Post("/submit/confirm", h.ConfirmSubmit)
	session.Post("/submit/cancel", h.CancelSubmit)
	session.Post("/submit", h.Submit)
	session.Get("/result", h.GetResult)
	session.Post("/restart", h.Restart)
}
