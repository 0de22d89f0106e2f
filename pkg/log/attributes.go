package log

// Standard attribute keys for pipeline logging. Using fixed keys keeps
// the run logs filterable stage by stage.
const (
	// StageKey names the pipeline stage emitting the event
	// ("load", "filter", "partition", "screen", "plot", "train",
	// "evaluate", "report").
	StageKey = "stage"

	// ModelNameKey identifies the model type, e.g. "RandomForestClassifier".
	ModelNameKey = "model.name"

	// OperationKey names the model operation: "fit", "predict",
	// "predict_proba", "cross_validate".
	OperationKey = "ml.operation"

	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns being processed.
	FeaturesKey = "data.features"

	// ClassesKey is the number of outcome classes.
	ClassesKey = "data.classes"

	// AccuracyKey is a reported accuracy value.
	AccuracyKey = "metrics.accuracy"

	// DurationMsKey is the wall-clock duration of a stage in milliseconds.
	DurationMsKey = "duration_ms"
)
