package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Department is the closed set of departments a candidate may belong to.
type Department string

const (
	DepartmentComputerScience Department = "Computer Science"
	DepartmentCivil           Department = "Civil"
	DepartmentMechanical      Department = "Mechanical"
	DepartmentElectrical      Department = "Electrical"
)

// Valid reports whether the value is one of the known departments.
func (d Department) Valid() bool {
	switch d {
	case DepartmentComputerScience, DepartmentCivil, DepartmentMechanical, DepartmentElectrical:
		return true
	default:
		return false
	}
}

// Candidate is the interviewee profile, created once per session and
// immutable afterwards.
type Candidate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName    string     `gorm:"size:255;not null" json:"full_name"`
	CollegeName string     `gorm:"size:255;not null" json:"college_name"`
	DateOfBirth string     `gorm:"size:10;not null" json:"date_of_birth"`
	Department  Department `gorm:"size:64;not null" json:"department"`
	CreatedAt   time.Time  `json:"created_at"`
}

// BeforeCreate assigns an identifier when the caller did not provide one.
func (c *Candidate) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
