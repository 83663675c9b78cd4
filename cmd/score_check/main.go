package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"loan-predictor/internal/domain"
	"loan-predictor/internal/model"
	"loan-predictor/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

var cli struct {
	Model      string            `help:"Path to the exported model artifact" env:"MODEL_PATH" default:"model/loan_model.json" type:"path"`
	Fallback   float64           `help:"Confidence reported when the model has no probability calibration" env:"FALLBACK_CONFIDENCE" default:"83"`
	Rate       float64           `help:"Annual interest rate used for the EMI estimate" env:"EMI_ANNUAL_RATE" default:"8.5"`
	Field      map[string]string `help:"Score a single application from form fields (e.g. -f ApplicantIncome=50000)" short:"f"`
	ShowVector bool              `help:"Print the encoded feature vector"`
}

// Scenario es una solicitud de ejemplo con el resultado esperado.
type Scenario struct {
	Name string
	Form url.Values
	// Expected es -1 cuando la solicitud debe fallar en validacion.
	Expected int
}

func main() {
	_ = godotenv.Load()
	kong.Parse(&cli,
		kong.Name("score_check"),
		kong.Description("Scores demo loan applications against a model artifact."),
	)

	pipeline, err := model.LoadLinearSVM(cli.Model)
	if err != nil {
		fmt.Printf("%s❌ model not loaded:%s %v\n", colorRed, colorReset, err)
		os.Exit(1)
	}
	fmt.Printf("%s[Model]%s %s (version %s)\n\n", colorCyan, colorReset, cli.Model, pipeline.Version())

	if len(cli.Field) > 0 {
		form := url.Values{}
		for k, v := range cli.Field {
			form.Set(k, v)
		}
		if _, err := score(pipeline, Scenario{Name: "Custom", Form: form, Expected: -2}); err != nil {
			os.Exit(1)
		}
		return
	}

	scenarios := []Scenario{
		{Name: "Solicitud Solida (Aprobada)", Form: approveDemo(), Expected: domain.PredictionApproved},
		{Name: "Sin Historial Crediticio (Rechazada)", Form: rejectDemo(), Expected: domain.PredictionRejected},
		{Name: "Montos Fuera de Rango (Validacion)", Form: invalidDemo(), Expected: -1},
	}

	passed := 0
	for _, sc := range scenarios {
		ok, _ := score(pipeline, sc)
		if ok {
			passed++
		}
	}
	fmt.Printf("Resultado: %d/%d escenarios OK\n", passed, len(scenarios))
	if passed != len(scenarios) {
		os.Exit(1)
	}
}

// score valida y evalua un escenario. Expected -2 desactiva la comparacion.
func score(clf model.Classifier, sc Scenario) (bool, error) {
	fmt.Printf("=== Ejecutando: %s ===\n", sc.Name)

	app, err := service.ValidateApplication(sc.Form)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) && sc.Expected == -1 {
			fmt.Printf("%s✅ PASS%s validation rejected: %s\n\n", colorGreen, colorReset, verr.Error())
			return true, nil
		}
		fmt.Printf("%s❌ FAIL%s validation: %v\n\n", colorRed, colorReset, err)
		return false, err
	}

	features := app.Features()
	if cli.ShowVector {
		printVector(features)
	}

	label, err := clf.Predict(features)
	if err != nil {
		fmt.Printf("%s❌ FAIL%s predict: %v\n\n", colorRed, colorReset, err)
		return false, err
	}
	confidence := cli.Fallback
	if prob, ok, err := clf.Confidence(features); err == nil && ok {
		confidence = service.Round(prob*100, 1)
	}

	total := service.TotalIncome(app.ApplicantIncome, app.CoapplicantIncome)
	emi := service.EMI(app.LoanAmount, app.LoanAmountTerm, cli.Rate)
	fmt.Printf("  result=%s confidence=%.1f%% total_income=%s ratio=%.2f emi=%s\n",
		domain.ResultLabel(label),
		confidence,
		humanize.CommafWithDigits(total, 2),
		service.LoanToIncomeRatio(app.LoanAmount, total),
		humanize.CommafWithDigits(service.Round(emi, 2), 2),
	)

	if sc.Expected == -2 {
		fmt.Println()
		return true, nil
	}
	if label != sc.Expected {
		fmt.Printf("%s❌ FAIL%s expected %s\n\n", colorRed, colorReset, domain.ResultLabel(sc.Expected))
		return false, nil
	}
	fmt.Printf("%s✅ PASS%s\n\n", colorGreen, colorReset)
	return true, nil
}

func printVector(features []float64) {
	idx := make([]int, len(features))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return domain.FeatureNames[idx[a]] < domain.FeatureNames[idx[b]] })
	for _, i := range idx {
		fmt.Printf("  %-18s %g\n", domain.FeatureNames[i], features[i])
	}
}

func approveDemo() url.Values {
	return url.Values{
		"Gender":            {"1"},
		"Married":           {"1"},
		"Dependents":        {"0"},
		"Education":         {"1"},
		"Self_Employed":     {"0"},
		"ApplicantIncome":   {"50000"},
		"CoapplicantIncome": {"15000"},
		"LoanAmount":        {"150000"},
		"Loan_Amount_Term":  {"360"},
		"Credit_History":    {"1"},
		"Property_Area":     {"2"},
	}
}

func rejectDemo() url.Values {
	return url.Values{
		"Gender":            {"0"},
		"Married":           {"0"},
		"Dependents":        {"4"},
		"Education":         {"0"},
		"Self_Employed":     {"1"},
		"ApplicantIncome":   {"12000"},
		"CoapplicantIncome": {"0"},
		"LoanAmount":        {"600000"},
		"Loan_Amount_Term":  {"360"},
		"Credit_History":    {"0"},
		"Property_Area":     {"0"},
	}
}

func invalidDemo() url.Values {
	form := rejectDemo()
	form.Set("ApplicantIncome", "500")
	form.Set("LoanAmount", "600")
	return form
}
