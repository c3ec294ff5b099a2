package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/abexp/abexp-backend/internal/domain"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
	"github.com/abexp/abexp-backend/internal/services"
)

type ExperimentHandler struct {
	log               *logger.Logger
	experimentService services.ExperimentService
}

func NewExperimentHandler(log *logger.Logger, experimentService services.ExperimentService) *ExperimentHandler {
	return &ExperimentHandler{
		log:               log.With("handler", "ExperimentHandler"),
		experimentService: experimentService,
	}
}

type variantBody struct {
	Distribution float64 `json:"distribution"`
	Data         string  `json:"data"`
}

type createExperimentBody struct {
	Name     string        `json:"name"`
	Variants []variantBody `json:"variants"`
}

type variantResponse struct {
	Distribution float64 `json:"distribution"`
	Data         string  `json:"data"`
}

type experimentResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Variants []variantResponse `json:"variants"`
}

type deviceExperimentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data string `json:"data"`
}

// ListExperiments returns the full experiment listing, or, when the caller
// identifies itself with an X-Device-Id header, the variant assignments for
// that device.
func (h *ExperimentHandler) ListExperiments(c *gin.Context) {
	rawDeviceID := c.GetHeader("X-Device-Id")
	if rawDeviceID != "" {
		h.listDeviceExperiments(c, rawDeviceID)
		return
	}

	experiments, err := h.experimentService.GetAllExperiments(c.Request.Context())
	if err != nil {
		h.log.Error("ListExperiments failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_experiments_failed", errInternal)
		return
	}

	out := make([]experimentResponse, 0, len(experiments))
	for _, exp := range experiments {
		variants := make([]variantResponse, 0, len(exp.Variants.Variants()))
		for _, v := range exp.Variants.Variants() {
			variants = append(variants, variantResponse{
				Distribution: v.Distribution.Value(),
				Data:         v.Data.String(),
			})
		}
		out = append(out, experimentResponse{
			ID:       exp.ID.String(),
			Name:     exp.Name.String(),
			Variants: variants,
		})
	}
	RespondOK(c, gin.H{"experiments": out})
}

func (h *ExperimentHandler) listDeviceExperiments(c *gin.Context, rawDeviceID string) {
	deviceID, err := domain.NewDeviceID(rawDeviceID)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_device_id", err)
		return
	}

	assignments, err := h.experimentService.GetDeviceExperiments(c.Request.Context(), deviceID)
	if err != nil {
		h.log.Error("ListDeviceExperiments failed", "error", err, "device_id", deviceID)
		RespondError(c, http.StatusInternalServerError, "load_device_experiments_failed", errInternal)
		return
	}

	out := make([]deviceExperimentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, deviceExperimentResponse{
			ID:   a.ExperimentID.String(),
			Name: a.Name.String(),
			Data: a.Data.String(),
		})
	}
	RespondOK(c, gin.H{"experiments": out})
}

func (h *ExperimentHandler) CreateExperiment(c *gin.Context) {
	var body createExperimentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_request_body", errMalformedBody)
		return
	}

	req, err := parseCreateExperimentBody(body)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_experiment", err)
		return
	}

	exp, err := h.experimentService.CreateExperiment(c.Request.Context(), *req)
	if err != nil {
		var duplicate domain.DuplicateExperimentError
		if errors.As(err, &duplicate) {
			RespondError(c, http.StatusUnprocessableEntity, "duplicate_experiment", duplicate)
			return
		}
		h.log.Error("CreateExperiment failed", "error", err, "name", body.Name)
		RespondError(c, http.StatusInternalServerError, "create_experiment_failed", errInternal)
		return
	}
	RespondCreated(c, gin.H{"id": exp.ID.String()})
}

type patchExperimentBody struct {
	Status string `json:"status"`
}

// FinishExperiment handles the one-way lifecycle transition. The only status
// value accepted is "finished"; a second finish is a conflict, not a no-op.
func (h *ExperimentHandler) FinishExperiment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_experiment_id", errInvalidExperimentID)
		return
	}

	var body patchExperimentBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Status != "finished" {
		RespondError(c, http.StatusUnprocessableEntity, "invalid_request_body", errInvalidStatus)
		return
	}

	finishedID, err := h.experimentService.FinishExperiment(c.Request.Context(), id)
	if err != nil {
		var notFound domain.ExperimentNotFoundError
		var finished domain.ExperimentFinishedError
		switch {
		case errors.As(err, &notFound):
			RespondError(c, http.StatusNotFound, "experiment_not_found", notFound)
		case errors.As(err, &finished):
			RespondError(c, http.StatusConflict, "experiment_finished", finished)
		default:
			h.log.Error("FinishExperiment failed", "error", err, "experiment_id", id)
			RespondError(c, http.StatusInternalServerError, "finish_experiment_failed", errInternal)
		}
		return
	}
	RespondOK(c, gin.H{"id": finishedID.String()})
}

func parseCreateExperimentBody(body createExperimentBody) (*domain.CreateExperimentRequest, error) {
	name, err := domain.NewExperimentName(body.Name)
	if err != nil {
		return nil, err
	}
	variants := make([]domain.Variant, 0, len(body.Variants))
	for _, v := range body.Variants {
		data, err := domain.NewVariantData(v.Data)
		if err != nil {
			return nil, err
		}
		distribution, err := domain.NewVariantDistribution(v.Distribution)
		if err != nil {
			return nil, err
		}
		variants = append(variants, domain.NewVariant(distribution, data))
	}
	validated, err := domain.NewExperimentVariants(variants)
	if err != nil {
		return nil, err
	}
	return &domain.CreateExperimentRequest{Name: name, Variants: validated}, nil
}

var (
	errInternal            = errors.New("internal server error")
	errMalformedBody       = errors.New("malformed request body")
	errInvalidExperimentID = errors.New("experiment id must be a valid uuid")
	errInvalidStatus       = errors.New(`status must be "finished"`)
)
