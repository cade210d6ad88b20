package features

import (
	"errors"
	"fmt"
)

// ErrContractMismatch is returned when an artifact's feature layout disagrees with the contract.
var ErrContractMismatch = errors.New("feature contract mismatch")

// Contract is the versioned feature layout shared between the training code and
// this server. Artifacts must be exported against it.
type Contract struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

// ExamScoreContract is the layout of the exam score regressor.
var ExamScoreContract = Contract{Name: "exam_score", Version: "1", Features: examFeatureNames()}

// PersonalityContract is the layout of the personality scaler and classifier.
var PersonalityContract = Contract{Name: "personality", Version: "1", Features: TraitNames()}

// Len returns the number of features.
func (c Contract) Len() int { return len(c.Features) }

// Check compares the feature names an artifact declares with the contract.
// Artifacts that declare no names pass; use CheckCount for those.
func (c Contract) Check(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if len(names) != len(c.Features) {
		return fmt.Errorf("%w: %s v%s expects %d features, artifact declares %d",
			ErrContractMismatch, c.Name, c.Version, len(c.Features), len(names))
	}
	for i, name := range names {
		if name != c.Features[i] {
			return fmt.Errorf("%w: %s v%s position %d is %q, artifact declares %q",
				ErrContractMismatch, c.Name, c.Version, i, c.Features[i], name)
		}
	}
	return nil
}

// CheckCount compares an artifact's input width with the contract. n <= 0 means unknown.
func (c Contract) CheckCount(n int) error {
	if n <= 0 || n == len(c.Features) {
		return nil
	}
	return fmt.Errorf("%w: %s v%s expects %d features, artifact takes %d",
		ErrContractMismatch, c.Name, c.Version, len(c.Features), n)
}
