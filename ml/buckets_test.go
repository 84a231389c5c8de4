package ml

import (
	"math"
	"testing"
)

func TestCategorizeBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{0, BMIUnderweight},
		{17.9, BMIUnderweight},
		{18.49, BMIUnderweight},
		{18.5, BMINormal},
		{24.9, BMINormal},
		{25.0, BMIOverweight},
		{29.9, BMIOverweight},
		{30.0, BMIObese},
		{55, BMIObese},
		{math.Inf(1), BMIObese},
		{math.Inf(-1), BMIUnderweight},
		{math.NaN(), BMIObese},
	}
	for _, tt := range tests {
		if got := CategorizeBMI(tt.bmi); got != tt.want {
			t.Errorf("CategorizeBMI(%v) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}

func TestCategorizeAge(t *testing.T) {
	tests := []struct {
		age  float64
		want string
	}{
		{-1, AgeUnder40},
		{39, AgeUnder40},
		{39.99, AgeUnder40},
		{40, Age40To60},
		{59, Age40To60},
		{60, Age60To80},
		{79, Age60To80},
		{80, Age80Plus},
		{120, Age80Plus},
		{math.NaN(), Age80Plus},
	}
	for _, tt := range tests {
		if got := CategorizeAge(tt.age); got != tt.want {
			t.Errorf("CategorizeAge(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestBucketsAreTotal(t *testing.T) {
	bmiLabels := make(map[string]bool)
	for _, label := range BMICategories() {
		bmiLabels[label] = true
	}
	ageLabels := make(map[string]bool)
	for _, label := range AgeGroups() {
		ageLabels[label] = true
	}
	for v := -10.0; v <= 150; v += 0.25 {
		if !bmiLabels[CategorizeBMI(v)] {
			t.Fatalf("CategorizeBMI(%v) returned unknown label %q", v, CategorizeBMI(v))
		}
		if !ageLabels[CategorizeAge(v)] {
			t.Fatalf("CategorizeAge(%v) returned unknown label %q", v, CategorizeAge(v))
		}
	}
}
