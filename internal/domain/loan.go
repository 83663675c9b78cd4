package domain

// Codificación categórica usada al entrenar el modelo. Debe coincidir exactamente.
const (
	GenderFemale = 0
	GenderMale   = 1

	MarriedNo  = 0
	MarriedYes = 1

	EducationNotGraduate = 0
	EducationGraduate    = 1

	SelfEmployedNo  = 0
	SelfEmployedYes = 1

	PropertyAreaRural     = 0
	PropertyAreaSemiurban = 1
	PropertyAreaUrban     = 2

	// DependentsThreePlus es el valor con el que se entrenó la categoría "3+".
	DependentsThreePlus = 4
)

// FeatureCount es el tamaño del vector que consume el clasificador.
const FeatureCount = 11

// FeatureNames mantiene el orden fijo del vector de features.
var FeatureNames = [FeatureCount]string{
	"Gender",
	"Married",
	"Dependents",
	"Education",
	"Self_Employed",
	"ApplicantIncome",
	"CoapplicantIncome",
	"LoanAmount",
	"Loan_Amount_Term",
	"Credit_History",
	"Property_Area",
}

// LoanApplication es el formulario ya validado y tipado.
type LoanApplication struct {
	Gender            int     `json:"gender"`
	Married           int     `json:"married"`
	Dependents        int     `json:"dependents"`
	Education         int     `json:"education"`
	SelfEmployed      int     `json:"self_employed"`
	ApplicantIncome   float64 `json:"applicant_income"`
	CoapplicantIncome float64 `json:"coapplicant_income"`
	LoanAmount        float64 `json:"loan_amount"`
	LoanAmountTerm    float64 `json:"loan_amount_term"`
	CreditHistory     float64 `json:"credit_history"`
	PropertyArea      int     `json:"property_area"`
}

// Features devuelve el vector en el orden de FeatureNames.
func (a LoanApplication) Features() []float64 {
	return []float64{
		float64(a.Gender),
		float64(a.Married),
		float64(a.Dependents),
		float64(a.Education),
		float64(a.SelfEmployed),
		a.ApplicantIncome,
		a.CoapplicantIncome,
		a.LoanAmount,
		a.LoanAmountTerm,
		a.CreditHistory,
		float64(a.PropertyArea),
	}
}
