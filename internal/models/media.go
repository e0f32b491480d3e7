package models

import "time"

type MediaFile struct {
	ID         int       `json:"id"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"filepath"`
	UploadedBy int       `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
