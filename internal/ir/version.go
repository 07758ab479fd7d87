package ir

// Version constants for records and the engine.
const (
	// RecordVersion is the serialized record schema version.
	RecordVersion = "1"

	// EngineVersion is the autotimer engine version.
	EngineVersion = "0.3.0"
)
