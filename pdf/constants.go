package pdf

import "time"

const (
	// DefaultCompressionTimeout bounds a single Ghostscript run
	DefaultCompressionTimeout = 120 * time.Second

	// CompatibilityLevel is the PDF version Ghostscript writes
	CompatibilityLevel = "1.4"

	// Extension is the only document extension the pipeline accepts
	Extension = ".pdf"

	// EncryptionKeyLength is the AES key length used for password protection
	EncryptionKeyLength = 256
)

// Info dictionary keys rewritten by the pipeline
const (
	KeyTitle        = "Title"
	KeyAuthor       = "Author"
	KeySubject      = "Subject"
	KeyCreationDate = "CreationDate"
	KeyModDate      = "ModDate"
)
