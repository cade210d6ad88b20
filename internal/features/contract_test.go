package features

import (
	"errors"
	"testing"
)

func TestContractCheck(t *testing.T) {
	c := ExamScoreContract
	if err := c.Check(nil); err != nil {
		t.Errorf("no names should pass: %v", err)
	}
	if err := c.Check(examFeatureNames()); err != nil {
		t.Errorf("exact names should pass: %v", err)
	}
	swapped := examFeatureNames()
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if err := c.Check(swapped); !errors.Is(err, ErrContractMismatch) {
		t.Errorf("reordered names: expected ErrContractMismatch, got %v", err)
	}
	if err := c.Check(swapped[:5]); !errors.Is(err, ErrContractMismatch) {
		t.Errorf("short names: expected ErrContractMismatch, got %v", err)
	}
}

func TestContractCheckCount(t *testing.T) {
	c := PersonalityContract
	if err := c.CheckCount(0); err != nil {
		t.Errorf("unknown width should pass: %v", err)
	}
	if err := c.CheckCount(NumTraits); err != nil {
		t.Errorf("matching width should pass: %v", err)
	}
	if err := c.CheckCount(25); !errors.Is(err, ErrContractMismatch) {
		t.Errorf("expected ErrContractMismatch, got %v", err)
	}
}
