package service

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"faceswap-api/constant"
)

// Options is the per-job engine configuration, captured once at intake and
// never mutated afterwards. The engine call receives it by value so no job can
// see another job's flags.
type Options struct {
	FaceEnhancer bool
	KeepFPS      bool
	SkipAudio    bool
	ManyFaces    bool
}

// Job is one request's lifecycle record. It lives for the duration of the
// request only and is owned by a single goroutine.
type Job struct {
	ID           uuid.UUID
	UserID       string
	SourcePath   string
	TargetPath   string
	OutputPath   string
	OutputName   string
	MediaKind    constant.MediaKind
	ResourceType string
	Cost         int64
	Options      Options
	Status       constant.JobStatus
}

var imageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"bmp":  true,
	"tiff": true,
}

func NewJob(userID string, sourceName, targetName string, uploadDir, outputDir string, opts Options) *Job {
	id := uuid.New()
	sourceExt := fileExt(sourceName, "jpg")
	targetExt := fileExt(targetName, "mp4")

	outputExt := "mp4"
	if imageExtensions[targetExt] {
		outputExt = targetExt
	}

	return &Job{
		ID:         id,
		UserID:     userID,
		SourcePath: filepath.Join(uploadDir, fmt.Sprintf("%s_source.%s", id, sourceExt)),
		TargetPath: filepath.Join(uploadDir, fmt.Sprintf("%s_target.%s", id, targetExt)),
		OutputPath: filepath.Join(outputDir, fmt.Sprintf("output_%s.%s", id, outputExt)),
		OutputName: fmt.Sprintf("swapped_%s", filepath.Base(targetName)),
		Options:    opts,
		Status:     constant.JobStatusCreated,
	}
}

// advance moves the job forward through its lifecycle. Backward transitions
// are ignored.
func (j *Job) advance(to constant.JobStatus) {
	if j.Status.CanTransition(to) {
		j.Status = to
	}
}

func fileExt(name, fallback string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return fallback
	}
	return strings.ToLower(ext)
}
