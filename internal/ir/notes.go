package ir

import "time"

// ConversionCategory classifies a ConversionNote for filtering and rollup.
type ConversionCategory string

const (
	ConversionInfo             ConversionCategory = "INFO"
	ConversionWarning          ConversionCategory = "WARNING"
	ConversionError            ConversionCategory = "ERROR"
	ConversionSystemConversion ConversionCategory = "SYSTEM_CONVERSION"
	ConversionAssetProcessing  ConversionCategory = "ASSET_PROCESSING"
	ConversionFormatLimitation ConversionCategory = "FORMAT_LIMITATION"
)

// ConversionNote is a timestamped diagnostic trail entry. Append-only:
// nothing in the pipeline is permitted to drop one silently.
type ConversionNote struct {
	Timestamp      time.Time
	Category       ConversionCategory
	Message        string
	AffectedEntity *string
}
