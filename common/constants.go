package common

const (
	// AppName is the name of the application
	AppName = "event-source-service"

	// StrFieldMaxLength is the maximum length for bounded string fields
	// (name, flavor, plugin type, plugin subtype, description)
	StrFieldMaxLength = 255

	// GCS constants
	GCSConfigArchiveBucket = "lariat-config-archive"
)
