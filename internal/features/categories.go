// Package features holds the closed categorical enumerations, the numeric input
// ranges, and the fixed-order feature vectors the two models consume.
package features

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is wrapped by CategoryError when a label falls outside its closed set.
var ErrUnknownCategory = errors.New("unknown category")

// CategoryError reports an encoding miss for one categorical field.
type CategoryError struct {
	Field   string
	Label   string
	Options []string
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s: unknown option %q (expected one of: %s)",
		e.Field, e.Label, strings.Join(e.Options, ", "))
}

func (e *CategoryError) Unwrap() error { return ErrUnknownCategory }

// SleepQuality is the self-reported sleep quality.
type SleepQuality int

const (
	SleepQualityLow SleepQuality = iota
	SleepQualityMedium
	SleepQualityHigh
	numSleepQualities
)

var sleepQualityLabels = [numSleepQualities]string{
	SleepQualityLow:    "Low",
	SleepQualityMedium: "Medium",
	SleepQualityHigh:   "High",
}

// StudyMethod is the dominant way the student studies.
type StudyMethod int

const (
	StudyMethodSelfStudy StudyMethod = iota
	StudyMethodGroupStudy
	StudyMethodOnline
	numStudyMethods
)

var studyMethodLabels = [numStudyMethods]string{
	StudyMethodSelfStudy:  "Self Study",
	StudyMethodGroupStudy: "Group Study",
	StudyMethodOnline:     "Online",
}

// FacilityRating is the rating of the study facilities available.
type FacilityRating int

const (
	FacilityRatingLow FacilityRating = iota
	FacilityRatingMedium
	FacilityRatingHigh
	numFacilityRatings
)

var facilityRatingLabels = [numFacilityRatings]string{
	FacilityRatingLow:    "Low",
	FacilityRatingMedium: "Medium",
	FacilityRatingHigh:   "High",
}

// SleepQualityOptions returns the selectable labels in display order.
func SleepQualityOptions() []string { return append([]string(nil), sleepQualityLabels[:]...) }

// StudyMethodOptions returns the selectable labels in display order.
func StudyMethodOptions() []string { return append([]string(nil), studyMethodLabels[:]...) }

// FacilityRatingOptions returns the selectable labels in display order.
func FacilityRatingOptions() []string { return append([]string(nil), facilityRatingLabels[:]...) }

// ParseSleepQuality maps a label to its enumeration value.
func ParseSleepQuality(label string) (SleepQuality, error) {
	i, err := parseLabel(FeatureSleepQuality, sleepQualityLabels[:], label)
	return SleepQuality(i), err
}

// ParseStudyMethod maps a label to its enumeration value.
func ParseStudyMethod(label string) (StudyMethod, error) {
	i, err := parseLabel(FeatureStudyMethod, studyMethodLabels[:], label)
	return StudyMethod(i), err
}

// ParseFacilityRating maps a label to its enumeration value.
func ParseFacilityRating(label string) (FacilityRating, error) {
	i, err := parseLabel(FeatureFacilityRating, facilityRatingLabels[:], label)
	return FacilityRating(i), err
}

func (s SleepQuality) String() string {
	return labelOf("SleepQuality", sleepQualityLabels[:], int(s))
}

func (m StudyMethod) String() string {
	return labelOf("StudyMethod", studyMethodLabels[:], int(m))
}

func (f FacilityRating) String() string {
	return labelOf("FacilityRating", facilityRatingLabels[:], int(f))
}

// Code is the integer the model was trained on.
func (s SleepQuality) Code() float64 { return float64(s) }

// Code is the integer the model was trained on.
func (m StudyMethod) Code() float64 { return float64(m) }

// Code is the integer the model was trained on.
func (f FacilityRating) Code() float64 { return float64(f) }

func parseLabel(field string, labels []string, label string) (int, error) {
	for i, l := range labels {
		if l == label {
			return i, nil
		}
	}
	return -1, &CategoryError{Field: field, Label: label, Options: append([]string(nil), labels...)}
}

func labelOf(typeName string, labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return fmt.Sprintf("%s(%d)", typeName, i)
	}
	return labels[i]
}
