package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MCQ is a multiple choice question attached to a lecture.
type MCQ struct {
	gorm.Model
	LectureID  uint                        `gorm:"index;not null" json:"lectureId"`
	Question   string                      `gorm:"type:text;not null" json:"question"`
	Options    datatypes.JSONSlice[string] `json:"option"`
	CorrectAns string                      `gorm:"not null" json:"correctAns,omitempty"`
	CreatedBy  uint                        `gorm:"index" json:"createdBy"`
	IsDeleted  bool                        `gorm:"default:false" json:"-"`
}

func (MCQ) TableName() string {
	return "mcqs"
}
