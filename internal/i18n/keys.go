// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyNotFound          = "common.not_found"
	KeyInternalError     = "common.internal_error"
	KeyInvalidID         = "common.invalid_id"
	KeyRateLimitExceeded = "common.rate_limit_exceeded"
	KeyCreated           = "common.created"
	KeyUpdated           = "common.updated"
	KeyDeleted           = "common.deleted"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Authentication
	KeyAuthRequired      = "auth.required"
	KeyAuthInvalidToken  = "auth.invalid_token"
	KeyAuthLoginSuccess  = "auth.login_success"
	KeyAdminAccessDenied = "admin.access_denied"

	// Catalog
	KeyProductsInserted = "catalog.products_inserted"
	KeyCatalogPurged    = "catalog.purged"
	KeyImageUploaded    = "media.image_uploaded"
	KeyImageRequired    = "media.image_required"
	KeyImageTooLarge    = "media.image_too_large"
)

// ErrorKey is the translation key for a machine-readable error code.
func ErrorKey(code string) string {
	return "error." + code
}
