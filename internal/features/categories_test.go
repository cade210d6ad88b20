package features

import (
	"strings"
	"testing"
)

func TestCategoricalEncoding_totalAndStable(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		parse   func(string) (float64, error)
		want    map[string]float64
	}{
		{
			name:    "sleep quality",
			options: SleepQualityOptions(),
			parse: func(s string) (float64, error) {
				v, err := ParseSleepQuality(s)
				return v.Code(), err
			},
			want: map[string]float64{"Low": 0, "Medium": 1, "High": 2},
		},
		{
			name:    "study method",
			options: StudyMethodOptions(),
			parse: func(s string) (float64, error) {
				v, err := ParseStudyMethod(s)
				return v.Code(), err
			},
			want: map[string]float64{"Self Study": 0, "Group Study": 1, "Online": 2},
		},
		{
			name:    "facility rating",
			options: FacilityRatingOptions(),
			parse: func(s string) (float64, error) {
				v, err := ParseFacilityRating(s)
				return v.Code(), err
			},
			want: map[string]float64{"Low": 0, "Medium": 1, "High": 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.options) != len(tt.want) {
				t.Fatalf("options %v, want %d entries", tt.options, len(tt.want))
			}
			seen := make(map[float64]string)
			for _, opt := range tt.options {
				first, err := tt.parse(opt)
				if err != nil {
					t.Fatalf("parse(%q): %v", opt, err)
				}
				second, _ := tt.parse(opt)
				if first != second {
					t.Errorf("parse(%q) not stable: %v then %v", opt, first, second)
				}
				if first != tt.want[opt] {
					t.Errorf("parse(%q) = %v, want %v", opt, first, tt.want[opt])
				}
				if prev, dup := seen[first]; dup {
					t.Errorf("code %v shared by %q and %q", first, prev, opt)
				}
				seen[first] = opt
			}
		})
	}
}

func TestCategoryString(t *testing.T) {
	if got := StudyMethodGroupStudy.String(); got != "Group Study" {
		t.Errorf("String() = %q", got)
	}
	if got := SleepQuality(7).String(); got != "SleepQuality(7)" {
		t.Errorf("out of range String() = %q", got)
	}
}

func TestParseLabel_caseSensitive(t *testing.T) {
	_, err := ParseSleepQuality("medium")
	if err == nil {
		t.Fatal("expected error for lowercase label")
	}
	if !strings.Contains(err.Error(), "Low, Medium, High") {
		t.Errorf("error should list options: %v", err)
	}
}

func TestOptionsAreCopies(t *testing.T) {
	opts := SleepQualityOptions()
	opts[0] = "Mutated"
	if SleepQualityOptions()[0] != "Low" {
		t.Error("options slice aliases the label table")
	}
}
