package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abexp/abexp-backend/internal/pkg/logger"
	"github.com/abexp/abexp-backend/internal/services"
)

type StatisticsHandler struct {
	log               *logger.Logger
	experimentService services.ExperimentService
}

func NewStatisticsHandler(log *logger.Logger, experimentService services.ExperimentService) *StatisticsHandler {
	return &StatisticsHandler{
		log:               log.With("handler", "StatisticsHandler"),
		experimentService: experimentService,
	}
}

type statisticsVariantResponse struct {
	Data              string  `json:"data"`
	TotalDevices      int     `json:"totalDevices"`
	PercentageDevices float64 `json:"percentageDevices"`
}

type statisticsExperimentResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	TotalDevices int                         `json:"totalDevices"`
	Variants     []statisticsVariantResponse `json:"variants"`
}

func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	statistics, err := h.experimentService.GetStatistics(c.Request.Context())
	if err != nil {
		h.log.Error("GetStatistics failed", "error", err)
		RespondError(c, http.StatusInternalServerError, "load_statistics_failed", errInternal)
		return
	}

	out := make([]statisticsExperimentResponse, 0, len(statistics))
	for _, stat := range statistics {
		variants := make([]statisticsVariantResponse, 0, len(stat.Variants))
		for _, v := range stat.Variants {
			variants = append(variants, statisticsVariantResponse{
				Data:              v.Data.String(),
				TotalDevices:      v.TotalDevices,
				PercentageDevices: v.PercentageDevices,
			})
		}
		out = append(out, statisticsExperimentResponse{
			ID:           stat.ID.String(),
			Name:         stat.Name.String(),
			TotalDevices: stat.TotalDevices,
			Variants:     variants,
		})
	}
	RespondOK(c, gin.H{"experiments": out})
}
