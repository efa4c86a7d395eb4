package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Performance lists the lectures a student has completed in a course.
type Performance struct {
	gorm.Model
	StudentID        uint                      `gorm:"uniqueIndex:idx_performance_student_course;not null" json:"studentId"`
	CourseID         uint                      `gorm:"uniqueIndex:idx_performance_student_course;not null" json:"courseId"`
	CompleteLectures datatypes.JSONSlice[uint] `json:"completeLectures"`
}

// HasLecture reports whether lectureID is already recorded as complete.
func (p *Performance) HasLecture(lectureID uint) bool {
	for _, id := range p.CompleteLectures {
		if id == lectureID {
			return true
		}
	}
	return false
}
