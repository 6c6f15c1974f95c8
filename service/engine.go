package service

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"faceswap-api/config"
)

// SwapSpec is the complete, immutable input to one engine invocation. The
// engine process is configured entirely through argv built from this value;
// nothing is carried in shared state between invocations.
type SwapSpec struct {
	SourcePath string
	TargetPath string
	OutputPath string
	Options    Options
}

// Engine runs one face swap synchronously. Implementations are expected to
// block for the full duration of the transformation.
type Engine interface {
	Swap(ctx context.Context, spec SwapSpec) error
}

type execEngine struct {
	binary    string
	providers []string
}

func NewExecEngine(cfg config.Engine) Engine {
	return &execEngine{
		binary:    cfg.Binary,
		providers: cfg.Providers,
	}
}

func (e *execEngine) Swap(ctx context.Context, spec SwapSpec) error {
	processors := []string{"face_swapper"}
	if spec.Options.FaceEnhancer {
		processors = append(processors, "face_enhancer")
	}

	args := []string{
		"-s", spec.SourcePath,
		"-t", spec.TargetPath,
		"-o", spec.OutputPath,
		"--frame-processor",
	}
	args = append(args, processors...)

	if spec.Options.KeepFPS {
		args = append(args, "--keep-fps")
	}
	if spec.Options.SkipAudio {
		args = append(args, "--skip-audio")
	}
	if spec.Options.ManyFaces {
		args = append(args, "--many-faces")
	}
	if len(e.providers) > 0 {
		args = append(args, "--execution-provider")
		args = append(args, e.providers...)
	}

	zerolog.Ctx(ctx).Debug().Str("binary", e.binary).Strs("args", args).Msg("invoking swap engine")

	cmd := exec.CommandContext(ctx, e.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("output", tail(string(output), 2000)).Msg("swap engine failed")
		return fmt.Errorf("engine execution failed: %w", err)
	}

	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
