package ml

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// FieldSource is anything that returns a field by name, such as url.Values.
// An empty string means the field is absent.
type FieldSource interface {
	Get(key string) string
}

// InputError lists every malformed or missing field of a submission.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

var floatFields = map[string]func(*PatientInput, float64){
	FeatureAge:              func(p *PatientInput, v float64) { p.Age = v },
	FeatureBMI:              func(p *PatientInput, v float64) { p.BMI = v },
	FeaturePhysicalActivity: func(p *PatientInput, v float64) { p.PhysicalActivity = v },
	FeatureAlcoholIntake:    func(p *PatientInput, v float64) { p.AlcoholIntake = v },
}

var intFields = map[string]func(*PatientInput, int){
	FeatureGender:        func(p *PatientInput, v int) { p.Gender = v },
	FeatureSmoking:       func(p *PatientInput, v int) { p.Smoking = v },
	FeatureGeneticRisk:   func(p *PatientInput, v int) { p.GeneticRisk = v },
	FeatureCancerHistory: func(p *PatientInput, v int) { p.CancerHistory = v },
}

// ParsePatientInput reads the numerical fields as floats and the
// categorical fields as integers. All named fields are required.
func ParsePatientInput(src FieldSource, numerical, categorical []string) (PatientInput, error) {
	var input PatientInput
	problems := make(map[string]string)

	for _, name := range numerical {
		set, ok := floatFields[name]
		if !ok {
			problems[name] = "not a numerical feature"
			continue
		}
		raw := strings.TrimSpace(src.Get(name))
		if raw == "" {
			problems[name] = "required"
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			problems[name] = fmt.Sprintf("%q is not a number", raw)
			continue
		}
		set(&input, v)
	}

	for _, name := range categorical {
		set, ok := intFields[name]
		if !ok {
			problems[name] = "not a categorical feature"
			continue
		}
		raw := strings.TrimSpace(src.Get(name))
		if raw == "" {
			problems[name] = "required"
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			problems[name] = fmt.Sprintf("%q is not an integer", raw)
			continue
		}
		set(&input, v)
	}

	if len(problems) > 0 {
		return PatientInput{}, &InputError{Fields: problems}
	}
	return input, nil
}
