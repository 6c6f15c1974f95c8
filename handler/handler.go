package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"faceswap-api/dto"
	"faceswap-api/service"
)

type SwapHandler struct {
	orchestrator service.Orchestrator
}

func NewSwapHandler(orchestrator service.Orchestrator) *SwapHandler {
	return &SwapHandler{orchestrator: orchestrator}
}

// Swap handles POST /swap: multipart intake, one orchestrator run, and
// exactly one of artifact stream, 402 or 500 back to the caller. Internal
// causes stay in the logs.
func (h *SwapHandler) Swap(c *gin.Context) {
	ctx := c.Request.Context()

	var form dto.SwapForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	source, err := form.Source.Open()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to open source upload")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded files"})
		return
	}
	defer source.Close()

	target, err := form.Target.Open()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to open target upload")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read uploaded files"})
		return
	}
	defer target.Close()

	job, err := h.orchestrator.Run(ctx, service.SwapRequest{
		UserID:     form.UserID,
		Source:     source,
		SourceName: form.Source.Filename,
		Target:     target,
		TargetName: form.Target.Filename,
		Options: service.Options{
			FaceEnhancer: form.FaceEnhancer,
			KeepFPS:      form.KeepFPS,
			SkipAudio:    form.SkipAudio,
			ManyFaces:    form.ManyFaces,
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusPaymentRequired, gin.H{"detail": "insufficient credits"})
		case errors.Is(err, service.ErrBillingVerification):
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "billing verification failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "processing failed, no output generated"})
		}
		return
	}

	c.FileAttachment(job.OutputPath, job.OutputName)
}
