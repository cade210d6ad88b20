package features

// Feature names of the exam score model, in vector order.
const (
	FeatureStudyHours      = "study_hours"
	FeatureClassAttendance = "class_attendance"
	FeatureSleepHours      = "sleep_hours"
	FeatureSleepQuality    = "sleep_quality"
	FeatureStudyMethod     = "study_method"
	FeatureFacilityRating  = "facility_rating"
)

// Bounds of the exam score numeric inputs.
var (
	StudyHoursRange      = Range{Min: 0, Max: 12, Default: 4, Step: 0.01}
	ClassAttendanceRange = Range{Min: 0, Max: 100, Default: 75, Step: 1}
	SleepHoursRange      = Range{Min: 0, Max: 10, Default: 7, Step: 0.01}
)

// ExamValues are the raw values of the exam score form, categorical fields as
// submitted labels.
type ExamValues struct {
	StudyHours      float64 `json:"study_hours"`
	ClassAttendance float64 `json:"class_attendance"`
	SleepHours      float64 `json:"sleep_hours"`
	SleepQuality    string  `json:"sleep_quality"`
	StudyMethod     string  `json:"study_method"`
	FacilityRating  string  `json:"facility_rating"`
}

// DefaultExamValues returns the values the form starts with.
func DefaultExamValues() ExamValues {
	return ExamValues{
		StudyHours:      StudyHoursRange.Default,
		ClassAttendance: ClassAttendanceRange.Default,
		SleepHours:      SleepHoursRange.Default,
		SleepQuality:    sleepQualityLabels[0],
		StudyMethod:     studyMethodLabels[0],
		FacilityRating:  facilityRatingLabels[0],
	}
}

// Validate checks every numeric field against its range.
func (v ExamValues) Validate() error {
	if err := StudyHoursRange.check(FeatureStudyHours, v.StudyHours); err != nil {
		return err
	}
	if err := ClassAttendanceRange.check(FeatureClassAttendance, v.ClassAttendance); err != nil {
		return err
	}
	return SleepHoursRange.check(FeatureSleepHours, v.SleepHours)
}

// Encode translates the categorical labels. The first miss is returned as a *CategoryError.
func (v ExamValues) Encode() (ExamInput, error) {
	quality, err := ParseSleepQuality(v.SleepQuality)
	if err != nil {
		return ExamInput{}, err
	}
	method, err := ParseStudyMethod(v.StudyMethod)
	if err != nil {
		return ExamInput{}, err
	}
	rating, err := ParseFacilityRating(v.FacilityRating)
	if err != nil {
		return ExamInput{}, err
	}
	return ExamInput{
		StudyHours:      v.StudyHours,
		ClassAttendance: v.ClassAttendance,
		SleepHours:      v.SleepHours,
		SleepQuality:    quality,
		StudyMethod:     method,
		FacilityRating:  rating,
	}, nil
}

// ExamInput is a fully encoded exam score input.
type ExamInput struct {
	StudyHours      float64
	ClassAttendance float64
	SleepHours      float64
	SleepQuality    SleepQuality
	StudyMethod     StudyMethod
	FacilityRating  FacilityRating
}

// Vector assembles the input in ExamScoreContract order.
func (in ExamInput) Vector() []float64 {
	return []float64{
		in.StudyHours,
		in.ClassAttendance,
		in.SleepHours,
		in.SleepQuality.Code(),
		in.StudyMethod.Code(),
		in.FacilityRating.Code(),
	}
}

func examFeatureNames() []string {
	return []string{
		FeatureStudyHours,
		FeatureClassAttendance,
		FeatureSleepHours,
		FeatureSleepQuality,
		FeatureStudyMethod,
		FeatureFacilityRating,
	}
}
