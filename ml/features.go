package ml

// Feature names as they appear in the form and in the trained artifacts.
const (
	FeatureAge              = "Age"
	FeatureGender           = "Gender"
	FeatureBMI              = "BMI"
	FeatureSmoking          = "Smoking"
	FeatureGeneticRisk      = "GeneticRisk"
	FeaturePhysicalActivity = "PhysicalActivity"
	FeatureAlcoholIntake    = "AlcoholIntake"
	FeatureCancerHistory    = "CancerHistory"
	FeatureBMICategory      = "BMI_Category"
	FeatureAgeGroup         = "Age_Group"
)

const (
	// FeatureCount is the length of a FeatureVector.
	FeatureCount = 10
	// NumericalFeatureCount is the number of leading vector positions the
	// scaler applies to.
	NumericalFeatureCount = 4
)

// PatientInput is one submitted form.
type PatientInput struct {
	Age              float64 `json:"age"`
	Gender           int     `json:"gender"`
	BMI              float64 `json:"bmi"`
	Smoking          int     `json:"smoking"`
	GeneticRisk      int     `json:"genetic_risk"`
	PhysicalActivity float64 `json:"physical_activity"`
	AlcoholIntake    float64 `json:"alcohol_intake"`
	CancerHistory    int     `json:"cancer_history"`
}

type EngineeredFeatures struct {
	BMICategory string `json:"bmi_category"`
	AgeGroup    string `json:"age_group"`
}

func Engineer(input PatientInput) EngineeredFeatures {
	return EngineeredFeatures{
		BMICategory: CategorizeBMI(input.BMI),
		AgeGroup:    CategorizeAge(input.Age),
	}
}

// FeatureVector lays out input and the encoded engineered features in the
// order the classifier was trained on. See FeatureNames.
func FeatureVector(input PatientInput, bmiCode, ageCode int) []float64 {
	return []float64{
		input.Age,
		input.BMI,
		input.PhysicalActivity,
		input.AlcoholIntake,
		float64(input.Gender),
		float64(input.Smoking),
		float64(input.GeneticRisk),
		float64(input.CancerHistory),
		float64(bmiCode),
		float64(ageCode),
	}
}

func FeatureNames() []string {
	return []string{
		FeatureAge,
		FeatureBMI,
		FeaturePhysicalActivity,
		FeatureAlcoholIntake,
		FeatureGender,
		FeatureSmoking,
		FeatureGeneticRisk,
		FeatureCancerHistory,
		FeatureBMICategory,
		FeatureAgeGroup,
	}
}

func NumericalFeatures() []string {
	return FeatureNames()[:NumericalFeatureCount]
}

func CategoricalFeatures() []string {
	return FeatureNames()[NumericalFeatureCount:8]
}

func EngineeredFeatureNames() []string {
	return FeatureNames()[8:]
}
