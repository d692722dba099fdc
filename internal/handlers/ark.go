package handlers

import (
  "errors"
  "net/http"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/mentark/mentark-backend/internal/arkgen"
  "github.com/mentark/mentark-backend/internal/logger"
  "github.com/mentark/mentark-backend/internal/services"
)

type ArkHandler struct {
  log        *logger.Logger
  arkService services.ArkGenerationService
}

func NewArkHandler(log *logger.Logger, arkService services.ArkGenerationService) *ArkHandler {
  return &ArkHandler{
    log:        log.With("handler", "ArkHandler"),
    arkService: arkService,
  }
}

type generateArkBody struct {
  StudentID         string `json:"student_id" binding:"required"`
  Category          string `json:"category" binding:"required"`
  Goal              string `json:"goal" binding:"required"`
  DurationHint      string `json:"duration_hint"`
  StudentProfile    string `json:"student_profile"`
  PsychologyProfile string `json:"psychology_profile"`
  TemplateID        string `json:"template_id"`
  StartDate         string `json:"start_date"`
}

func (h *ArkHandler) GenerateArk(c *gin.Context) {
  var body generateArkBody
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  studentID, err := uuid.Parse(body.StudentID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
    return
  }

  req := services.GenerateArkRequest{
    StudentID:         studentID,
    Category:          body.Category,
    Goal:              body.Goal,
    DurationHint:      body.DurationHint,
    StudentProfile:    body.StudentProfile,
    PsychologyProfile: body.PsychologyProfile,
  }
  if body.TemplateID != "" {
    templateID, err := uuid.Parse(body.TemplateID)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_template_id", err)
      return
    }
    req.TemplateID = &templateID
  }
  if body.StartDate != "" {
    startDate, err := time.Parse("2006-01-02", body.StartDate)
    if err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_start_date", err)
      return
    }
    req.StartDate = &startDate
  }

  summary, err := h.arkService.GenerateAndPersist(c.Request.Context(), req)
  if err != nil {
    h.respondGenerationError(c, err)
    return
  }
  RespondOK(c, gin.H{"ark": summary})
}

func (h *ArkHandler) respondGenerationError(c *gin.Context, err error) {
  var pErr *services.PersistenceError
  switch {
  case errors.Is(err, services.ErrNoProviderConfigured):
    RespondError(c, http.StatusServiceUnavailable, "no_provider_configured", err)
  case errors.Is(err, arkgen.ErrRefusalDetected):
    RespondError(c, http.StatusUnprocessableEntity, "refusal_detected", err)
  case errors.Is(err, arkgen.ErrMalformedPayload), errors.Is(err, arkgen.ErrMissingTitle), errors.Is(err, arkgen.ErrMissingMilestones):
    RespondError(c, http.StatusUnprocessableEntity, "malformed_payload", err)
  case errors.Is(err, arkgen.ErrEmptyMilestones):
    RespondError(c, http.StatusUnprocessableEntity, "empty_milestones", err)
  case errors.As(err, &pErr):
    h.log.Error("Roadmap persistence failed", "stage", pErr.Stage, "error", err)
    RespondError(c, http.StatusInternalServerError, "persistence_failed", err)
  default:
    h.log.Error("Roadmap generation failed", "error", err)
    RespondError(c, http.StatusInternalServerError, "generation_failed", err)
  }
}
