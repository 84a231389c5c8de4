package ml

// BMI categories, ordered from lowest to highest.
const (
	BMIUnderweight = "Underweight"
	BMINormal      = "Normal"
	BMIOverweight  = "Overweight"
	BMIObese       = "Obese"
)

// Age groups, ordered from youngest to oldest.
const (
	AgeUnder40 = "<40"
	Age40To60  = "40-60"
	Age60To80  = "60-80"
	Age80Plus  = "80+"
)

// CategorizeBMI maps a BMI value to its category. Lower bounds are
// inclusive, upper bounds exclusive.
func CategorizeBMI(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}

// CategorizeAge maps an age in years to its age group.
func CategorizeAge(age float64) string {
	switch {
	case age < 40:
		return AgeUnder40
	case age < 60:
		return Age40To60
	case age < 80:
		return Age60To80
	default:
		return Age80Plus
	}
}

func BMICategories() []string {
	return []string{BMIUnderweight, BMINormal, BMIOverweight, BMIObese}
}

func AgeGroups() []string {
	return []string{AgeUnder40, Age40To60, Age60To80, Age80Plus}
}
