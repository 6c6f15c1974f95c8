package dto

import (
	"mime/multipart"

	"github.com/google/uuid"
)

type SwapForm struct {
	Source       *multipart.FileHeader `form:"source" binding:"required"`
	Target       *multipart.FileHeader `form:"target" binding:"required"`
	UserID       string                `form:"user_id" binding:"required"`
	FaceEnhancer bool                  `form:"face_enhancer"`
	KeepFPS      bool                  `form:"keep_fps,default=true"`
	SkipAudio    bool                  `form:"skip_audio"`
	ManyFaces    bool                  `form:"many_faces"`
}

type SwapCompletedMessage struct {
	JobId        uuid.UUID `json:"jobId"`
	UserId       string    `json:"userId"`
	ResourceType string    `json:"resourceType"`
	Cost         int64     `json:"cost"`
	OutputObject string    `json:"objectPath,omitempty"`
}
