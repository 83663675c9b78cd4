package model

import "fmt"

// UnavailableClassifier reemplaza al modelo cuando el artefacto no cargo al arrancar.
// Cada llamada falla rapido en lugar de invocar un modelo nulo.
type UnavailableClassifier struct {
	cause error
}

func NewUnavailableClassifier(cause error) *UnavailableClassifier {
	return &UnavailableClassifier{cause: cause}
}

func (c *UnavailableClassifier) err() error {
	if c.cause == nil {
		return ErrModelUnavailable
	}
	return fmt.Errorf("%w: %v", ErrModelUnavailable, c.cause)
}

func (c *UnavailableClassifier) Ready() error {
	return c.err()
}

func (c *UnavailableClassifier) Predict(_ []float64) (int, error) {
	return 0, c.err()
}

func (c *UnavailableClassifier) Confidence(_ []float64) (float64, bool, error) {
	return 0, false, c.err()
}
