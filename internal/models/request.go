// Package models defines the request and result payloads shared by the server, the CLI and the adapters.
package models

import (
	"github.com/hyperjump/yosoku/internal/features"
)

// ExamScoreRequest is the JSON body of an exam score prediction. Omitted fields take the form defaults.
type ExamScoreRequest struct {
	StudyHours      *float64 `json:"study_hours,omitempty"`
	ClassAttendance *float64 `json:"class_attendance,omitempty"`
	SleepHours      *float64 `json:"sleep_hours,omitempty"`
	SleepQuality    string   `json:"sleep_quality,omitempty"`
	StudyMethod     string   `json:"study_method,omitempty"`
	FacilityRating  string   `json:"facility_rating,omitempty"`
}

// Values merges the request over the form defaults.
func (r *ExamScoreRequest) Values() features.ExamValues {
	v := features.DefaultExamValues()
	if r.StudyHours != nil {
		v.StudyHours = *r.StudyHours
	}
	if r.ClassAttendance != nil {
		v.ClassAttendance = *r.ClassAttendance
	}
	if r.SleepHours != nil {
		v.SleepHours = *r.SleepHours
	}
	if r.SleepQuality != "" {
		v.SleepQuality = r.SleepQuality
	}
	if r.StudyMethod != "" {
		v.StudyMethod = r.StudyMethod
	}
	if r.FacilityRating != "" {
		v.FacilityRating = r.FacilityRating
	}
	return v
}

// PersonalityRequest is the JSON body of a personality prediction. Traits are keyed by
// feature name; omitted traits default to 5.
type PersonalityRequest struct {
	Traits map[string]float64 `json:"traits"`
}

// Values builds the trait vector, rejecting unknown names.
func (r *PersonalityRequest) Values() (features.Traits, error) {
	return features.TraitsFromMap(r.Traits)
}
