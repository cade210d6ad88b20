package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// xgbDocument is the subset of the XGBoost JSON model schema the evaluator needs.
type xgbDocument struct {
	Learner struct {
		Attributes struct {
			BestIteration string `json:"best_iteration"`
		} `json:"attributes"`
		FeatureNames    []string `json:"feature_names"`
		GradientBooster struct {
			Name       string       `json:"name"`
			Model      *xgbGBTree   `json:"model"`
			GBTree     *xgbGBTreeWr `json:"gbtree"`
			WeightDrop []float64    `json:"weight_drop"`
		} `json:"gradient_booster"`
		ModelParam struct {
			BaseScore  string `json:"base_score"`
			NumFeature string `json:"num_feature"`
			NumClass   string `json:"num_class"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
	Version []int `json:"version"`
}

// xgbGBTreeWr wraps the gbtree model nested inside a dart booster.
type xgbGBTreeWr struct {
	Model *xgbGBTree `json:"model"`
}

type xgbGBTree struct {
	Param struct {
		NumTrees        string `json:"num_trees"`
		NumParallelTree string `json:"num_parallel_tree"`
	} `json:"gbtree_model_param"`
	Trees []xgbTreeJSON `json:"trees"`
}

type xgbTreeJSON struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     flexBools `json:"default_left"`
	// SplitType is 0 for numerical and 1 for categorical splits.
	SplitType []int `json:"split_type"`
}

// flexBools decodes default_left, written as 0/1 integers by older releases and as booleans by newer ones.
type flexBools []bool

func (b *flexBools) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]bool, len(raw))
	for i, r := range raw {
		switch s := strings.TrimSpace(string(r)); s {
		case "true", "1":
			out[i] = true
		case "false", "0":
		default:
			return fmt.Errorf("default_left[%d]: unexpected value %s", i, s)
		}
	}
	*b = out
	return nil
}

type xgbTree struct {
	left, right []int
	split       []int
	cond        []float64
	defaultLeft []bool
	weight      float64
}

func (t *xgbTree) leaf(x []float64) float64 {
	n := 0
	for t.left[n] != -1 {
		v := math.NaN()
		if idx := t.split[n]; idx < len(x) {
			v = x[idx]
		}
		switch {
		case math.IsNaN(v):
			if t.defaultLeft[n] {
				n = t.left[n]
			} else {
				n = t.right[n]
			}
		case v < t.cond[n]:
			n = t.left[n]
		default:
			n = t.right[n]
		}
	}
	return t.cond[n] * t.weight
}

// XGBoostRegressor evaluates a gradient-boosted tree ensemble saved by XGBoost as JSON.
type XGBoostRegressor struct {
	trees      []xgbTree
	baseMargin float64
	link       func(float64) float64
	info       Info
}

// LoadXGBoost reads an XGBoost JSON model from path.
func LoadXGBoost(path string) (*XGBoostRegressor, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, err
	}
	return decodeXGBoost(path, data)
}

func decodeXGBoost(path string, data []byte) (*XGBoostRegressor, error) {
	r, err := parseXGBoost(data)
	if err != nil {
		return nil, artifactErr(path, err)
	}
	r.info.Path = path
	return r, nil
}

func parseXGBoost(data []byte) (*XGBoostRegressor, error) {
	var doc xgbDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse xgboost json: %w", err)
	}
	l := doc.Learner

	var gb *xgbGBTree
	var weights []float64
	switch l.GradientBooster.Name {
	case "gbtree":
		gb = l.GradientBooster.Model
	case "dart":
		if l.GradientBooster.GBTree != nil {
			gb = l.GradientBooster.GBTree.Model
		}
		weights = l.GradientBooster.WeightDrop
	case "gblinear":
		return nil, errors.New("gblinear boosters are not supported")
	default:
		return nil, fmt.Errorf("unknown booster %q", l.GradientBooster.Name)
	}
	if gb == nil || len(gb.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}
	if nc := atoiOr(l.ModelParam.NumClass, 0); nc > 1 {
		return nil, fmt.Errorf("multi-class boosters are not regressors (num_class=%d)", nc)
	}

	baseScore, err := parseBaseScore(l.ModelParam.BaseScore)
	if err != nil {
		return nil, err
	}
	margin, link, err := objectiveLink(l.Objective.Name, baseScore)
	if err != nil {
		return nil, err
	}

	limit := len(gb.Trees)
	if bi := l.Attributes.BestIteration; bi != "" {
		best, err := strconv.Atoi(bi)
		if err != nil {
			return nil, fmt.Errorf("invalid best_iteration %q", bi)
		}
		perRound := atoiOr(gb.Param.NumParallelTree, 1)
		if perRound < 1 {
			perRound = 1
		}
		if n := (best + 1) * perRound; n < limit {
			limit = n
		}
	}

	numFeature := atoiOr(l.ModelParam.NumFeature, len(l.FeatureNames))
	trees := make([]xgbTree, 0, limit)
	for i, tj := range gb.Trees[:limit] {
		t, err := buildTree(tj, numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		if i < len(weights) {
			t.weight = weights[i]
		}
		trees = append(trees, t)
	}

	version := ""
	if len(doc.Version) > 0 {
		parts := make([]string, len(doc.Version))
		for i, v := range doc.Version {
			parts[i] = strconv.Itoa(v)
		}
		version = strings.Join(parts, ".")
	}

	return &XGBoostRegressor{
		trees:      trees,
		baseMargin: margin,
		link:       link,
		info: Info{
			Format:       FormatXGBoost,
			Kind:         "regressor",
			NumFeatures:  numFeature,
			FeatureNames: l.FeatureNames,
			Version:      version,
		},
	}, nil
}

// buildTree validates the node arrays of one tree. numFeature <= 0 means the width is unknown.
func buildTree(tj xgbTreeJSON, numFeature int) (xgbTree, error) {
	n := len(tj.LeftChildren)
	if n == 0 {
		return xgbTree{}, errors.New("empty tree")
	}
	if len(tj.RightChildren) != n || len(tj.SplitIndices) != n ||
		len(tj.SplitConditions) != n || len(tj.DefaultLeft) != n {
		return xgbTree{}, errors.New("node arrays differ in length")
	}
	if tj.SplitType != nil && len(tj.SplitType) != n {
		return xgbTree{}, errors.New("split_type differs in length from the node arrays")
	}
	for i := 0; i < n; i++ {
		l, r := tj.LeftChildren[i], tj.RightChildren[i]
		if l == -1 {
			continue
		}
		if l <= i || r <= i || l >= n || r >= n {
			return xgbTree{}, fmt.Errorf("node %d has invalid children (%d, %d)", i, l, r)
		}
		if idx := tj.SplitIndices[i]; idx < 0 || (numFeature > 0 && idx >= numFeature) {
			return xgbTree{}, fmt.Errorf("node %d splits on feature %d, model has %d", i, idx, numFeature)
		}
		if tj.SplitType != nil && tj.SplitType[i] != 0 {
			return xgbTree{}, fmt.Errorf("node %d is a categorical split; retrain without enable_categorical", i)
		}
	}
	return xgbTree{
		left:        tj.LeftChildren,
		right:       tj.RightChildren,
		split:       tj.SplitIndices,
		cond:        tj.SplitConditions,
		defaultLeft: tj.DefaultLeft,
		weight:      1,
	}, nil
}

// parseBaseScore accepts both "5E-1" and the bracketed "[5E-1]" written by XGBoost 2.1+.
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]"))
	if s == "" {
		return 0.5, nil
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q", s)
	}
	return v, nil
}

func objectiveLink(name string, baseScore float64) (float64, func(float64) float64, error) {
	identity := func(v float64) float64 { return v }
	switch name {
	case "", "reg:squarederror", "reg:linear", "reg:squaredlogerror",
		"reg:pseudohubererror", "reg:absoluteerror", "reg:quantileerror":
		return baseScore, identity, nil
	case "reg:logistic", "binary:logistic":
		return logit(baseScore), sigmoid, nil
	case "binary:logitraw":
		return logit(baseScore), identity, nil
	case "count:poisson", "reg:gamma", "reg:tweedie":
		if baseScore <= 0 {
			return 0, nil, fmt.Errorf("base_score %v invalid for %s", baseScore, name)
		}
		return math.Log(baseScore), math.Exp, nil
	}
	return 0, nil, fmt.Errorf("unsupported objective %q", name)
}

// Predict sums the leaf values of every tree and applies the objective's link.
func (r *XGBoostRegressor) Predict(_ context.Context, x []float64) (float64, error) {
	if err := checkWidth(x, r.info.NumFeatures); err != nil {
		return 0, err
	}
	sum := r.baseMargin
	for i := range r.trees {
		sum += r.trees[i].leaf(x)
	}
	return r.link(sum), nil
}

func (r *XGBoostRegressor) numTrees() int { return len(r.trees) }

// Info describes the artifact.
func (r *XGBoostRegressor) Info() Info { return r.info }

// Close is a no-op; the trees live on the Go heap.
func (r *XGBoostRegressor) Close() error { return nil }

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func sigmoid(v float64) float64 { return 1 / (1 + math.Exp(-v)) }

func logit(p float64) float64 {
	switch {
	case p <= 0:
		return math.Inf(-1)
	case p >= 1:
		return math.Inf(1)
	}
	return math.Log(p / (1 - p))
}
