package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DecisionTree is a binary tree stored as a flat node array; node 0 is the
// root.
type DecisionTree struct {
	nodes []TreeNode
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	ClassLabel int     `json:"class_label"`
	IsLeaf     bool    `json:"is_leaf"`
	Confidence float64 `json:"confidence,omitempty"`
}

// treeArtifact is the on-disk form. A bare node array is also accepted.
type treeArtifact struct {
	NFeatures int        `json:"n_features"`
	Nodes     []TreeNode `json:"nodes"`
}

func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	dt := &DecisionTree{nodes: append([]TreeNode(nil), nodes...)}
	if err := dt.validate(0); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) Predict(features []float64) (int, float64, error) {
	if len(dt.nodes) == 0 {
		return 0, 0, errors.New("model not loaded")
	}
	idx := 0
	// A well-formed tree reaches a leaf in fewer than len(nodes) steps.
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.ClassLabel, leafConfidence(node), nil
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= len(features) {
			return 0, 0, errors.New("feature index out of range")
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
		if idx < 0 || idx >= len(dt.nodes) {
			return 0, 0, errors.New("invalid tree state")
		}
	}
	return 0, 0, errors.New("tree contains a cycle")
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var artifact treeArtifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		var nodes []TreeNode
		if errArr := json.Unmarshal(payload, &nodes); errArr != nil {
			return fmt.Errorf("decode decision tree: %w", err)
		}
		artifact.Nodes = nodes
	}
	dt.nodes = artifact.Nodes
	return dt.validate(artifact.NFeatures)
}

// validate checks node links and, when width > 0, that every split reads a
// feature inside the vector.
func (dt *DecisionTree) validate(width int) error {
	if len(dt.nodes) == 0 {
		return errors.New("decision tree has no nodes")
	}
	if width > 0 && width != FeatureCount {
		return fmt.Errorf("decision tree expects %d features, vector has %d", width, FeatureCount)
	}
	for i, node := range dt.nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 || node.FeatureIdx >= FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.FeatureIdx)
		}
		if node.LeftChild < 0 || node.LeftChild >= len(dt.nodes) ||
			node.RightChild < 0 || node.RightChild >= len(dt.nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
	}
	return nil
}

func leafConfidence(node TreeNode) float64 {
	if node.Confidence <= 0 || node.Confidence > 1 {
		return 1
	}
	return node.Confidence
}
