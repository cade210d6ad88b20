package model

import (
	"os"
	"path/filepath"
	"testing"
)

// xgbFixture is a two-tree booster over two features:
// tree 0 splits feature 0 at 5 (leaves -1 and 2, missing goes left); tree 1 is a single 0.5 leaf.
const xgbFixture = `{
  "learner": {
    "attributes": {%s},
    "feature_names": ["a", "b"],
    "gradient_booster": {
      "name": "gbtree",
      "model": {
        "gbtree_model_param": {"num_trees": "2", "num_parallel_tree": "1"},
        "trees": [
          {
            "left_children": [1, -1, -1],
            "right_children": [2, -1, -1],
            "split_indices": [0, 0, 0],
            "split_conditions": [5.0, -1.0, 2.0],
            "default_left": [1, 0, 0]
          },
          {
            "left_children": [-1],
            "right_children": [-1],
            "split_indices": [0],
            "split_conditions": [0.5],
            "default_left": [false]
          }
        ]
      }
    },
    "learner_model_param": {"base_score": "%s", "num_feature": "2", "num_class": "0"},
    "objective": {"name": "%s"}
  },
  "version": [2, 1, 0]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
