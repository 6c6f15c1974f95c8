package service

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"faceswap-api/constant"
)

// creditsPerUnit is the flat price of an image swap and the per-second price
// of a video swap.
const creditsPerUnit = 300

// DurationProber reports a media file's duration in seconds.
type DurationProber interface {
	Duration(ctx context.Context, path string) (float64, error)
}

type Estimator struct {
	prober DurationProber
}

func NewEstimator(prober DurationProber) *Estimator {
	return &Estimator{prober: prober}
}

// Estimate classifies the target artifact and prices the job. It never fails:
// when a video's duration cannot be probed, or probes as non-positive, the job
// is priced as one second of video rather than rejected. Undercharging a
// request with broken metadata beats blocking it.
func (e *Estimator) Estimate(ctx context.Context, targetPath string) (constant.MediaKind, string, int64) {
	if imageExtensions[fileExt(targetPath, "")] {
		return constant.MediaKindImage, constant.ResourceTypeImage, creditsPerUnit
	}

	duration, err := e.prober.Duration(ctx, targetPath)
	if err != nil || duration <= 0 {
		zerolog.Ctx(ctx).Warn().Err(err).Float64("duration", duration).Str("target", targetPath).
			Msg("could not determine video duration, charging for one second")
		duration = 1.0
	}

	cost := int64(math.Ceil(duration)) * creditsPerUnit
	return constant.MediaKindVideo, constant.ResourceTypeVideo, cost
}
