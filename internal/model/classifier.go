package model

import "errors"

// Classifier define la frontera con el modelo pre-entrenado. No contiene reglas de negocio.
type Classifier interface {
	// Ready devuelve ErrModelUnavailable si el artefacto no pudo cargarse.
	Ready() error
	Predict(features []float64) (int, error)
	// Confidence devuelve la probabilidad de la clase mas probable en [0, 1].
	// ok es false cuando el modelo no expone probabilidades.
	Confidence(features []float64) (prob float64, ok bool, err error)
}

var (
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInvalidArtifact  = errors.New("invalid model artifact")
	ErrFeatureMismatch  = errors.New("feature vector size mismatch")
)
