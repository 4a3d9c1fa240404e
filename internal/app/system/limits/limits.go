// internal/app/system/limits/limits.go
package limits

// Request body size limits for the API.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBody is the maximum size of a JSON request body.
	MaxJSONBody = 1 << 20 // 1 MB

	// MaxPhotoUpload is the maximum size of a patient photo.
	MaxPhotoUpload = 10 << 20 // 10 MB

	// MaxMultipartOverhead is allowed on top of MaxPhotoUpload for the
	// other form fields and part headers.
	MaxMultipartOverhead = 1 << 20 // 1 MB
)
