package service

import (
	"strings"
	"testing"

	"faceswap-api/constant"
)

func TestNewJobPaths(t *testing.T) {
	job := NewJob("user-1", "face.JPG", "clip.MOV", "uploads", "outputs", Options{})

	if job.UserID != "user-1" {
		t.Errorf("expected user-1, got %s", job.UserID)
	}
	if job.Status != constant.JobStatusCreated {
		t.Errorf("expected CREATED, got %s", job.Status)
	}
	if !strings.Contains(job.SourcePath, job.ID.String()) || !strings.Contains(job.TargetPath, job.ID.String()) {
		t.Error("artifact paths must be namespaced by job id")
	}
	if !strings.HasSuffix(job.SourcePath, "_source.jpg") {
		t.Errorf("unexpected source path %s", job.SourcePath)
	}
	// Non-image targets always produce an mp4.
	if !strings.HasSuffix(job.OutputPath, ".mp4") {
		t.Errorf("unexpected output path %s", job.OutputPath)
	}
	if job.OutputName != "swapped_clip.MOV" {
		t.Errorf("unexpected output name %s", job.OutputName)
	}
}

func TestNewJobImageTargetKeepsExtension(t *testing.T) {
	job := NewJob("user-1", "face.jpg", "photo.png", "uploads", "outputs", Options{})
	if !strings.HasSuffix(job.OutputPath, ".png") {
		t.Errorf("image target should keep its extension, got %s", job.OutputPath)
	}
}

func TestNewJobMissingExtensions(t *testing.T) {
	job := NewJob("user-1", "face", "clip", "uploads", "outputs", Options{})
	if !strings.HasSuffix(job.SourcePath, "_source.jpg") {
		t.Errorf("source extension should default to jpg, got %s", job.SourcePath)
	}
	if !strings.HasSuffix(job.TargetPath, "_target.mp4") {
		t.Errorf("target extension should default to mp4, got %s", job.TargetPath)
	}
}

func TestAdvanceIsForwardOnly(t *testing.T) {
	job := NewJob("user-1", "a.jpg", "b.mp4", "uploads", "outputs", Options{})

	job.advance(constant.JobStatusProcessing)
	if job.Status != constant.JobStatusProcessing {
		t.Fatalf("expected PROCESSING, got %s", job.Status)
	}

	job.advance(constant.JobStatusUploaded)
	if job.Status != constant.JobStatusProcessing {
		t.Errorf("backward transition must be ignored, got %s", job.Status)
	}

	job.advance(constant.JobStatusFailed)
	if job.Status != constant.JobStatusFailed {
		t.Errorf("Failed must be reachable from any non-terminal status, got %s", job.Status)
	}

	job.advance(constant.JobStatusSucceeded)
	if job.Status != constant.JobStatusFailed {
		t.Errorf("terminal status must not change, got %s", job.Status)
	}
}
