package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// pickleProto is the first byte of every pickle stream since protocol 2.
const pickleProto = 0x80

var errPickle = errors.New("pickle files cannot be loaded; export the model to JSON (save_model / fitted attributes) or ONNX")

func readArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, artifactErr(path, err)
	}
	if len(data) == 0 {
		return nil, artifactErr(path, errors.New("file is empty"))
	}
	if data[0] == pickleProto {
		return nil, artifactErr(path, errPickle)
	}
	return data, nil
}

// DetectFormat guesses the artifact format from the file extension, then from
// the top-level keys of a JSON document.
func DetectFormat(path string) (string, error) {
	format, _, err := detectFormat(path)
	return format, err
}

// detectFormat is DetectFormat that also returns the bytes it read, if any.
func detectFormat(path string) (string, []byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return FormatONNX, nil, nil
	case ".pkl", ".pickle", ".joblib":
		return "", nil, artifactErr(path, errPickle)
	}
	data, err := readArtifact(path)
	if err != nil {
		return "", nil, err
	}
	format, err := jsonFormat(path, data)
	if err != nil {
		return "", nil, err
	}
	return format, data, nil
}

func jsonFormat(path string, data []byte) (string, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return "", artifactErr(path, errors.New("unrecognized artifact; expected a JSON object or an .onnx file"))
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return "", artifactErr(path, fmt.Errorf("failed to parse json: %w", err))
	}
	has := func(names ...string) bool {
		for _, n := range names {
			if _, ok := keys[n]; ok {
				return true
			}
		}
		return false
	}
	switch {
	case has("learner"):
		return FormatXGBoost, nil
	case has("coef", "coef_"):
		return FormatLogReg, nil
	case has("mean", "scale", "min"):
		return FormatScaler, nil
	}
	return "", artifactErr(path, errors.New("json document is not a known model format"))
}

// resolveFormat returns the format of spec and, when detection had to read the file,
// its contents so the parser does not read it again.
func resolveFormat(spec Spec) (string, []byte, error) {
	if spec.Path == "" {
		return "", nil, fmt.Errorf("%w: no path configured", ErrArtifact)
	}
	switch f := strings.ToLower(spec.Format); f {
	case "", FormatAuto:
		return detectFormat(spec.Path)
	default:
		return f, nil, nil
	}
}

// artifactBytes returns data, reading path when detection did not.
func artifactBytes(path string, data []byte) ([]byte, error) {
	if data != nil {
		return data, nil
	}
	return readArtifact(path)
}

// LoadRegressor loads the regression model described by spec.
func LoadRegressor(ctx context.Context, spec Spec) (Regressor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, data, err := resolveFormat(spec)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXGBoost:
		data, err := artifactBytes(spec.Path, data)
		if err != nil {
			return nil, err
		}
		r, err := decodeXGBoost(spec.Path, data)
		if err != nil {
			return nil, err
		}
		return r, nil
	case FormatONNX:
		r, err := NewONNXRegressor(spec)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, artifactErr(spec.Path, fmt.Errorf("format %q is not a regressor", format))
}

// LoadClassifier loads the classification model described by spec.
func LoadClassifier(ctx context.Context, spec Spec) (Classifier, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, data, err := resolveFormat(spec)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatLogReg:
		data, err := artifactBytes(spec.Path, data)
		if err != nil {
			return nil, err
		}
		c, err := decodeLogReg(spec.Path, data)
		if err != nil {
			return nil, err
		}
		return c, nil
	case FormatONNX:
		c, err := NewONNXClassifier(spec, spec.NumClasses)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, artifactErr(spec.Path, fmt.Errorf("format %q is not a classifier", format))
}

// LoadTransformer loads the feature scaler described by spec.
func LoadTransformer(ctx context.Context, spec Spec) (Transformer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, data, err := resolveFormat(spec)
	if err != nil {
		return nil, err
	}
	if format != FormatScaler {
		return nil, artifactErr(spec.Path, fmt.Errorf("format %q is not a scaler", format))
	}
	data, err = artifactBytes(spec.Path, data)
	if err != nil {
		return nil, err
	}
	s, err := decodeScaler(spec.Path, data)
	if err != nil {
		return nil, err
	}
	return s, nil
}
