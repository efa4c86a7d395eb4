package models

import "gorm.io/gorm"

const (
	ResourceVideo = "video"
	ResourceImage = "image"
	ResourceRaw   = "raw"
)

type Lecture struct {
	gorm.Model
	CourseID     uint   `gorm:"index;not null" json:"courseId"`
	Title        string `gorm:"not null" json:"title"`
	Description  string `gorm:"type:text" json:"description"`
	Resource     string `gorm:"not null" json:"resource"`
	ResourceType string `gorm:"type:varchar(20);default:'video'" json:"resourceType"` // video, image, raw
	IsDeleted    bool   `gorm:"default:false" json:"-"`
}
