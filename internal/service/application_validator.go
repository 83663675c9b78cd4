package service

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"loan-predictor/internal/domain"
)

const (
	MinApplicantIncome = 10000
	MinLoanAmount      = 10000
	MaxLoanAmount      = 10000000
	MinLoanTerm        = 12
	MaxLoanTerm        = 360
	DefaultLoanTerm    = 360
)

// ValidationError agrupa todas las reglas violadas, no solo la primera.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " | ")
}

type fieldKind int

const (
	kindInt fieldKind = iota
	kindFloat
)

// formField describe como se convierte cada campo del formulario.
type formField struct {
	name   string
	label  string
	kind   fieldKind
	def    float64
	labels map[string]int
	set    func(*domain.LoanApplication, float64)
}

func intField(name, label string, labels map[string]int, set func(*domain.LoanApplication, float64)) formField {
	return formField{name: name, label: label, kind: kindInt, labels: labels, set: set}
}

func floatField(name, label string, def float64, set func(*domain.LoanApplication, float64)) formField {
	return formField{name: name, label: label, kind: kindFloat, def: def, set: set}
}

// applicationFields sigue el orden del vector de features.
var applicationFields = []formField{
	intField("Gender", "Gender",
		map[string]int{"female": domain.GenderFemale, "male": domain.GenderMale},
		func(a *domain.LoanApplication, v float64) { a.Gender = int(v) }),
	intField("Married", "Married",
		map[string]int{"no": domain.MarriedNo, "yes": domain.MarriedYes},
		func(a *domain.LoanApplication, v float64) { a.Married = int(v) }),
	intField("Dependents", "Dependents",
		map[string]int{"3+": domain.DependentsThreePlus},
		func(a *domain.LoanApplication, v float64) { a.Dependents = int(v) }),
	intField("Education", "Education",
		map[string]int{"not graduate": domain.EducationNotGraduate, "graduate": domain.EducationGraduate},
		func(a *domain.LoanApplication, v float64) { a.Education = int(v) }),
	intField("Self_Employed", "Self employed",
		map[string]int{"no": domain.SelfEmployedNo, "yes": domain.SelfEmployedYes},
		func(a *domain.LoanApplication, v float64) { a.SelfEmployed = int(v) }),
	floatField("ApplicantIncome", "Applicant income", 0,
		func(a *domain.LoanApplication, v float64) { a.ApplicantIncome = v }),
	floatField("CoapplicantIncome", "Coapplicant income", 0,
		func(a *domain.LoanApplication, v float64) { a.CoapplicantIncome = v }),
	floatField("LoanAmount", "Loan amount", 0,
		func(a *domain.LoanApplication, v float64) { a.LoanAmount = v }),
	floatField("Loan_Amount_Term", "Loan term", DefaultLoanTerm,
		func(a *domain.LoanApplication, v float64) { a.LoanAmountTerm = v }),
	floatField("Credit_History", "Credit history", 0,
		func(a *domain.LoanApplication, v float64) { a.CreditHistory = v }),
	intField("Property_Area", "Property area",
		map[string]int{"rural": domain.PropertyAreaRural, "semiurban": domain.PropertyAreaSemiurban, "urban": domain.PropertyAreaUrban},
		func(a *domain.LoanApplication, v float64) { a.PropertyArea = int(v) }),
}

type rule struct {
	field   string
	valid   func(domain.LoanApplication) bool
	message string
}

var applicationRules = []rule{
	{"Gender", func(a domain.LoanApplication) bool { return isBinary(a.Gender) }, "Gender is not a valid option"},
	{"Married", func(a domain.LoanApplication) bool { return isBinary(a.Married) }, "Married is not a valid option"},
	{"Dependents", func(a domain.LoanApplication) bool { return validDependents(a.Dependents) }, "Dependents is not a valid option"},
	{"Education", func(a domain.LoanApplication) bool { return isBinary(a.Education) }, "Education is not a valid option"},
	{"Self_Employed", func(a domain.LoanApplication) bool { return isBinary(a.SelfEmployed) }, "Self employed is not a valid option"},
	{"ApplicantIncome", func(a domain.LoanApplication) bool { return a.ApplicantIncome >= MinApplicantIncome }, "Applicant income is too low"},
	{"CoapplicantIncome", func(a domain.LoanApplication) bool { return a.CoapplicantIncome >= 0 }, "Coapplicant income cannot be negative"},
	{"LoanAmount", func(a domain.LoanApplication) bool { return a.LoanAmount >= MinLoanAmount }, "Loan amount is too low"},
	{"LoanAmount", func(a domain.LoanApplication) bool { return a.LoanAmount <= MaxLoanAmount }, "Loan amount is too high"},
	{"Loan_Amount_Term", func(a domain.LoanApplication) bool { return a.LoanAmountTerm >= MinLoanTerm }, "Loan term is too short"},
	{"Loan_Amount_Term", func(a domain.LoanApplication) bool { return a.LoanAmountTerm <= MaxLoanTerm }, "Loan term is too long"},
	{"Credit_History", func(a domain.LoanApplication) bool { return a.CreditHistory == 0 || a.CreditHistory == 1 }, "Credit history must be 0 or 1"},
	{"Property_Area", func(a domain.LoanApplication) bool { return validPropertyArea(a.PropertyArea) }, "Property area is not a valid option"},
}

// validDependents acepta 0, 1, 2 y el 4 con que se codifico "3+". El 3 nunca aparece al entrenar.
func validDependents(v int) bool {
	return v == 0 || v == 1 || v == 2 || v == domain.DependentsThreePlus
}

func validPropertyArea(v int) bool {
	return v >= domain.PropertyAreaRural && v <= domain.PropertyAreaUrban
}

func isBinary(v int) bool {
	return v == 0 || v == 1
}

// ValidateApplication convierte el formulario y aplica todas las reglas.
// Devuelve *ValidationError con cada violacion encontrada.
func ValidateApplication(form url.Values) (domain.LoanApplication, error) {
	var app domain.LoanApplication
	var messages []string
	unparsed := make(map[string]bool)

	for _, f := range applicationFields {
		raw := strings.TrimSpace(form.Get(f.name))
		if raw == "" {
			f.set(&app, f.def)
			continue
		}
		v, ok := f.parse(raw)
		if !ok {
			unparsed[f.name] = true
			messages = append(messages, f.parseMessage())
			f.set(&app, f.def)
			continue
		}
		f.set(&app, v)
	}

	for _, r := range applicationRules {
		if unparsed[r.field] {
			continue
		}
		if !r.valid(app) {
			messages = append(messages, r.message)
		}
	}

	if len(messages) > 0 {
		return domain.LoanApplication{}, &ValidationError{Messages: messages}
	}
	return app, nil
}

func (f formField) parse(raw string) (float64, bool) {
	switch f.kind {
	case kindInt:
		if n, err := strconv.Atoi(raw); err == nil {
			return float64(n), true
		}
		if n, ok := f.labels[strings.ToLower(raw)]; ok {
			return float64(n), true
		}
		return 0, false
	default:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}
}

func (f formField) parseMessage() string {
	if f.kind == kindInt {
		return f.label + " must be a whole number"
	}
	return f.label + " must be a number"
}
