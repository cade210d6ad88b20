package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Scaler kinds.
const (
	ScalerStandard = "standard_scaler"
	ScalerMinMax   = "min_max_scaler"
)

type scalerDocument struct {
	Type         string    `json:"type"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	Min          []float64 `json:"min"`
	WithMean     *bool     `json:"with_mean"`
	WithStd      *bool     `json:"with_std"`
	FeatureNames []string  `json:"feature_names"`
	Version      string    `json:"sklearn_version"`
}

// Scaler applies a fitted affine per-feature transform: (x - offset) * factor.
type Scaler struct {
	offset []float64
	factor []float64
	info   Info
}

// LoadScaler reads a scaler JSON artifact from path.
func LoadScaler(path string) (*Scaler, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return decodeScaler(path, data)
}

func decodeScaler(path string, data []byte) (*Scaler, error) {
	s, err := parseScaler(data)
	if err != nil {
		return nil, artifactErr(path, err)
	}
	s.info.Path = path
	return s, nil
}

func parseScaler(data []byte) (*Scaler, error) {
	var doc scalerDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse scaler json: %w", err)
	}
	kind := doc.Type
	if kind == "" {
		switch {
		case doc.Min != nil:
			kind = ScalerMinMax
		case doc.Mean != nil || doc.Scale != nil:
			kind = ScalerStandard
		}
	}

	var offset, factor []float64
	switch kind {
	case ScalerStandard:
		withMean := doc.WithMean == nil || *doc.WithMean
		withStd := doc.WithStd == nil || *doc.WithStd
		n := max(len(doc.Mean), len(doc.Scale))
		if n == 0 {
			return nil, errors.New("standard scaler has neither mean nor scale")
		}
		offset = make([]float64, n)
		factor = make([]float64, n)
		for i := range factor {
			factor[i] = 1
		}
		if withMean {
			if len(doc.Mean) != n {
				return nil, fmt.Errorf("mean has %d entries, want %d", len(doc.Mean), n)
			}
			copy(offset, doc.Mean)
		}
		if withStd {
			if len(doc.Scale) != n {
				return nil, fmt.Errorf("scale has %d entries, want %d", len(doc.Scale), n)
			}
			for i, s := range doc.Scale {
				if s != 0 {
					factor[i] = 1 / s
				}
			}
		}
	case ScalerMinMax:
		n := len(doc.Scale)
		if n == 0 || len(doc.Min) != n {
			return nil, fmt.Errorf("min/scale length mismatch (%d vs %d)", len(doc.Min), n)
		}
		// x*scale + min == (x - (-min/scale)) * scale
		offset = make([]float64, n)
		factor = append([]float64(nil), doc.Scale...)
		for i := range offset {
			if doc.Scale[i] == 0 {
				return nil, fmt.Errorf("min_max scale[%d] is zero", i)
			}
			offset[i] = -doc.Min[i] / doc.Scale[i]
		}
	default:
		return nil, fmt.Errorf("unknown scaler type %q", doc.Type)
	}
	if len(doc.FeatureNames) > 0 && len(doc.FeatureNames) != len(offset) {
		return nil, fmt.Errorf("feature_names has %d entries for %d features", len(doc.FeatureNames), len(offset))
	}

	return &Scaler{
		offset: offset,
		factor: factor,
		info: Info{
			Format:       FormatScaler,
			Kind:         kind,
			NumFeatures:  len(offset),
			FeatureNames: doc.FeatureNames,
			Version:      doc.Version,
		},
	}, nil
}

// Transform returns a new, scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if err := checkWidth(x, len(s.offset)); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	floats.SubTo(out, x, s.offset)
	floats.Mul(out, s.factor)
	return out, nil
}

// Info describes the artifact.
func (s *Scaler) Info() Info { return s.info }
