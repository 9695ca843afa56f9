// Package detectors provides unsupervised outlier models over numeric
// feature matrices.
package detectors

// Detector is the common interface for trainable outlier models.
type Detector interface {
	// Fit trains the model on historical data.
	// data is a 2D slice where each row is a sample and each column is a feature.
	Fit(data [][]float64) error

	// Predict returns anomaly scores for the given samples.
	// Scores are in [0, 1] where higher values indicate anomalies.
	Predict(data [][]float64) ([]float64, error)

	// PredictOne returns the anomaly score for a single sample.
	PredictOne(sample []float64) (float64, error)

	// Save serializes the trained model to bytes.
	Save() ([]byte, error)

	// Load deserializes a trained model from bytes.
	Load(data []byte) error
}

// Score represents one model verdict.
type Score struct {
	// Value is the anomaly score in [0, 1].
	Value float64
	// IsAnomaly indicates if the score exceeds the model threshold.
	IsAnomaly bool
	// Features contains the input feature vector.
	Features []float64
}

// Config holds common configuration for outlier models.
type Config struct {
	// Contamination is the expected proportion of anomalies in training data.
	Contamination float64
	// Threshold is the score threshold for classifying anomalies.
	Threshold float64
	// RandomSeed for reproducibility.
	RandomSeed int64
}

// DefaultConfig returns sensible defaults for model configuration.
func DefaultConfig() Config {
	return Config{
		Contamination: 0.05,
		Threshold:     0.5,
		RandomSeed:    42,
	}
}
