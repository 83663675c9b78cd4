package model

// MockClassifier permite tests sin un artefacto real.
type MockClassifier struct {
	Label       int
	Probability float64
	HasProba    bool
	Err         error
	Calls       int
}

func (m *MockClassifier) Ready() error {
	return nil
}

func (m *MockClassifier) Predict(_ []float64) (int, error) {
	m.Calls++
	return m.Label, m.Err
}

func (m *MockClassifier) Confidence(_ []float64) (float64, bool, error) {
	if m.Err != nil {
		return 0, false, m.Err
	}
	return m.Probability, m.HasProba, nil
}
