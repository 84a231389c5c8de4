package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrUnseenLabel = errors.New("label not seen during fit")

// LabelEncoder maps a fixed set of string labels to integer codes. The code
// of a label is its index in Classes.
type LabelEncoder struct {
	Classes []string `json:"classes"`

	index map[string]int
}

func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("encoder has no classes")
	}
	enc := &LabelEncoder{Classes: append([]string(nil), classes...)}
	enc.buildIndex()
	return enc, nil
}

// LoadLabelEncoder reads an encoder artifact of the form {"classes": [...]}.
func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var enc LabelEncoder
	if err := json.Unmarshal(payload, &enc); err != nil {
		return nil, fmt.Errorf("decode encoder: %w", err)
	}
	return NewLabelEncoder(enc.Classes)
}

func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, class := range e.Classes {
		if _, dup := e.index[class]; !dup {
			e.index[class] = i
		}
	}
}

// Transform returns the code for label, or ErrUnseenLabel.
func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnseenLabel, label)
	}
	return code, nil
}

// SafeTransform is Transform with a silent fallback: a label outside
// Classes encodes as the first known class.
func (e *LabelEncoder) SafeTransform(label string) int {
	if code, err := e.Transform(label); err == nil {
		return code
	}
	return e.index[e.Classes[0]]
}

func (e *LabelEncoder) Known(label string) bool {
	_, ok := e.index[label]
	return ok
}
