package api

const (
	// DefaultLevelCode is used when the level field is missing or invalid
	DefaultLevelCode = 2

	// MaxErrorMessageLength truncates engine errors returned to clients
	MaxErrorMessageLength = 200

	// multipartOverhead is added to the request size limit for form fields
	// and part headers
	multipartOverhead = 1 << 20

	// Response headers carrying the per-state file counts
	HeaderFilesSucceeded = "X-Files-Succeeded"
	HeaderFilesFailed    = "X-Files-Failed"
	HeaderFilesSkipped   = "X-Files-Skipped"
)

// Form field names of the original web form, accepted next to the current ones
const (
	legacyCreatedField  = "created_date"
	legacyModifiedField = "modified_date"
)

var (
	// uploadFields carry documents, in the order they are read
	uploadFields = []string{"files", "pdf", "file"}

	// levelFields carry the compression level, first match wins
	levelFields = []string{"level", "compression_level"}
)
