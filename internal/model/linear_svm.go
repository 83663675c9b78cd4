package model

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	"loan-predictor/internal/domain"
)

// Artifact es la exportacion JSON del pipeline StandardScaler + SVC lineal.
// Probability, si existe, contiene los parametros de Platt: P(classes[1]) = 1/(1+exp(a*d+b)).
type Artifact struct {
	Version      string    `json:"version"`
	FeatureNames []string  `json:"feature_names"`
	Scaler       Scaler    `json:"scaler"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	Classes      []int     `json:"classes"`
	Probability  *Platt    `json:"probability,omitempty"`
}

type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

type Platt struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// LinearSVMPipeline evalua el artefacto: escala las features y aplica la funcion de decision lineal.
type LinearSVMPipeline struct {
	artifact Artifact
}

// LoadLinearSVM lee el artefacto desde disco.
func LoadLinearSVM(path string) (*LinearSVMPipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model artifact: %w", err)
	}
	defer f.Close()
	return ParseLinearSVM(f)
}

// ParseLinearSVM decodifica y valida el artefacto.
func ParseLinearSVM(r io.Reader) (*LinearSVMPipeline, error) {
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidArtifact, err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &LinearSVMPipeline{artifact: a}, nil
}

func (a Artifact) validate() error {
	n := domain.FeatureCount
	if len(a.Coef) != n || len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("%w: expected %d coefficients, means and scales", ErrInvalidArtifact, n)
	}
	if len(a.FeatureNames) != 0 {
		if len(a.FeatureNames) != n {
			return fmt.Errorf("%w: expected %d feature names", ErrInvalidArtifact, n)
		}
		for i, name := range a.FeatureNames {
			if name != domain.FeatureNames[i] {
				return fmt.Errorf("%w: feature %d is %q, want %q", ErrInvalidArtifact, i, name, domain.FeatureNames[i])
			}
		}
	}
	for i, s := range a.Scaler.Scale {
		if !(s > 0) {
			return fmt.Errorf("%w: scale %d must be positive", ErrInvalidArtifact, i)
		}
	}
	if len(a.Classes) != 2 {
		return fmt.Errorf("%w: expected 2 classes", ErrInvalidArtifact)
	}
	return nil
}

func (p *LinearSVMPipeline) Version() string {
	return p.artifact.Version
}

func (p *LinearSVMPipeline) Ready() error {
	return nil
}

// Decision devuelve la distancia con signo al hiperplano.
func (p *LinearSVMPipeline) Decision(features []float64) (float64, error) {
	if len(features) != domain.FeatureCount {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureMismatch, len(features), domain.FeatureCount)
	}
	x := make([]float64, len(features))
	floats.SubTo(x, features, p.artifact.Scaler.Mean)
	floats.Div(x, p.artifact.Scaler.Scale)
	return floats.Dot(p.artifact.Coef, x) + p.artifact.Intercept, nil
}

func (p *LinearSVMPipeline) Predict(features []float64) (int, error) {
	d, err := p.Decision(features)
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return p.artifact.Classes[1], nil
	}
	return p.artifact.Classes[0], nil
}

func (p *LinearSVMPipeline) Confidence(features []float64) (float64, bool, error) {
	if p.artifact.Probability == nil {
		return 0, false, nil
	}
	d, err := p.Decision(features)
	if err != nil {
		return 0, false, err
	}
	positive := 1 / (1 + math.Exp(p.artifact.Probability.A*d+p.artifact.Probability.B))
	return math.Max(positive, 1-positive), true, nil
}
