package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/internal/service"
	"github.com/gbgcf/crp-questionnaire/internal/utils"
)

// QuestionnaireOperations is the orchestrator surface served over HTTP
type QuestionnaireOperations interface {
	GetForm(ctx context.Context, journeyType, customerID string) (string, error)
	SaveForm(ctx context.Context, journeyType, customerID, formData string) (string, error)
	SubmitForm(ctx context.Context, journeyType, customerID, formData string) (string, error)
	ViewForm(ctx context.Context, journeyType, customerID string) (string, error)
	ResetForm(ctx context.Context, journeyType, customerID string) (string, error)
	RetakeQuestionnaire(ctx context.Context, journeyType, customerID string) (string, error)
	GetQuestionnaireError(ctx context.Context, journeyType, customerID string) (string, error)
	RecordDecision(ctx context.Context, journeyType, customerID string) (string, error)
}

// subjectPath binds /:journeyType/:customerIdentificationId
type subjectPath struct {
	JourneyType              string `uri:"journeyType" binding:"required"`
	CustomerIdentificationID string `uri:"customerIdentificationId" binding:"required"`
}

// subjectQuery binds ?journeyType=&customerIdentificationId=
type subjectQuery struct {
	JourneyType              string `form:"journeyType" binding:"required"`
	CustomerIdentificationID string `form:"customerIdentificationId" binding:"required"`
}

// QuestionnaireHandler handles questionnaire HTTP requests
type QuestionnaireHandler struct {
	service QuestionnaireOperations
	logger  *logrus.Logger
}

// NewQuestionnaireHandler creates a new questionnaire handler instance
func NewQuestionnaireHandler(svc QuestionnaireOperations, logger *logrus.Logger) *QuestionnaireHandler {
	return &QuestionnaireHandler{
		service: svc,
		logger:  logger,
	}
}

// GetFormData handles GET /form-data/:journeyType/:customerIdentificationId
func (h *QuestionnaireHandler) GetFormData(c *gin.Context) {
	var path subjectPath
	if err := c.ShouldBindUri(&path); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	form, err := h.service.GetForm(c.Request.Context(), path.JourneyType, path.CustomerIdentificationID)
	h.respond(c, form, err)
}

// SaveODSData handles PUT /saveODSData
func (h *QuestionnaireHandler) SaveODSData(c *gin.Context) {
	query, formData, ok := h.bindQueryWithBody(c)
	if !ok {
		return
	}

	result, err := h.service.SaveForm(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID, formData)
	h.respond(c, result, err)
}

// SubmitODSData handles POST /submitODSData
func (h *QuestionnaireHandler) SubmitODSData(c *gin.Context) {
	query, formData, ok := h.bindQueryWithBody(c)
	if !ok {
		return
	}

	result, err := h.service.SubmitForm(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID, formData)
	h.respond(c, result, err)
}

// ViewForm handles GET /viewForm
func (h *QuestionnaireHandler) ViewForm(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}

	form, err := h.service.ViewForm(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID)
	h.respond(c, form, err)
}

// ResetForm handles GET /reset
func (h *QuestionnaireHandler) ResetForm(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}

	form, err := h.service.ResetForm(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID)
	if err != nil && !service.IsClientError(err) {
		utils.SendTextResponse(c, http.StatusInternalServerError, models.ErrorResettingForm)
		return
	}
	h.respond(c, form, err)
}

// RetakeQuestionnaire handles POST /retake
func (h *QuestionnaireHandler) RetakeQuestionnaire(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}

	result, err := h.service.RetakeQuestionnaire(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID)
	h.respond(c, result, err)
}

// GetQuestionnaireError handles GET /questionnaire-error/:journeyType/:customerIdentificationId
func (h *QuestionnaireHandler) GetQuestionnaireError(c *gin.Context) {
	var path subjectPath
	if err := c.ShouldBindUri(&path); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	report, err := h.service.GetQuestionnaireError(c.Request.Context(), path.JourneyType, path.CustomerIdentificationID)
	if err != nil && !service.IsClientError(err) {
		utils.SendTextResponse(c, http.StatusInternalServerError, models.ErrorProcessingRequest)
		return
	}
	h.respond(c, report, err)
}

// RecordDecision handles POST /decision
func (h *QuestionnaireHandler) RecordDecision(c *gin.Context) {
	query, ok := h.bindQuery(c)
	if !ok {
		return
	}

	result, err := h.service.RecordDecision(c.Request.Context(), query.JourneyType, query.CustomerIdentificationID)
	h.respond(c, result, err)
}

func (h *QuestionnaireHandler) bindQuery(c *gin.Context) (subjectQuery, bool) {
	var query subjectQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.SendValidationError(c, err.Error())
		return query, false
	}
	return query, true
}

func (h *QuestionnaireHandler) bindQueryWithBody(c *gin.Context) (subjectQuery, string, bool) {
	query, ok := h.bindQuery(c)
	if !ok {
		return query, "", false
	}

	body, err := c.GetRawData()
	if err != nil {
		utils.SendValidationError(c, "failed to read request body")
		return query, "", false
	}
	return query, string(body), true
}

// respond writes the operation result, translating errors to their HTTP outcome
func (h *QuestionnaireHandler) respond(c *gin.Context, body string, err error) {
	if err == nil {
		utils.SendOKText(c, body)
		return
	}

	switch {
	case errors.Is(err, service.ErrAlreadySubmitted):
		utils.SendTextResponse(c, http.StatusNotFound, models.FormAlreadySubmitted)
	case errors.Is(err, service.ErrGatewayFailed):
		utils.SendTextResponse(c, http.StatusNotFound, models.Failed)
	case errors.Is(err, service.ErrFormNotAvailable):
		utils.SendTextResponse(c, http.StatusNotFound, models.FormNotAvailable)
	case errors.Is(err, service.ErrFormNotFound):
		utils.SendEmptyResponse(c, http.StatusNotFound)
	case service.IsClientError(err):
		utils.SendCodedError(c, clientErrorCode(err), clientErrorMessage(err), err.Error())
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.SendEmptyResponse(c, http.StatusInternalServerError)
	}
}

func clientErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrUnrecognizedJourneyType):
		return models.ErrCodeInvalidJourneyType
	case errors.Is(err, service.ErrSubjectNotFound):
		return models.ErrCodeSubjectNotFound
	case errors.Is(err, service.ErrPolicyNotAssigned):
		return models.ErrCodePolicyNotAssigned
	case errors.Is(err, service.ErrNoActiveRecord):
		return models.ErrCodeNoActiveRecord
	case errors.Is(err, service.ErrInvalidTransition):
		return models.ErrCodeInvalidTransition
	}
	return models.ErrCodeValidationError
}

func clientErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUnrecognizedJourneyType):
		return "Unrecognized journey type"
	case errors.Is(err, service.ErrSubjectNotFound):
		return "Customer not found"
	case errors.Is(err, service.ErrPolicyNotAssigned):
		return "Policy not assigned to customer"
	case errors.Is(err, service.ErrNoActiveRecord):
		return "No tracking record in the required status"
	case errors.Is(err, service.ErrInvalidTransition):
		return "Invalid status transition"
	}
	return "Validation failed"
}
