package errors

// Error code constants returned in API responses.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these codes to messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthAccountDeactivated = "AUTH_ACCOUNT_DEACTIVATED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzNoOwnedStore = "AUTHZ_NO_OWNED_STORE"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput     = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID        = "VALIDATION_INVALID_ID"
	ValidationInvalidRange     = "VALIDATION_INVALID_RANGE"
	ValidationInvalidSortField = "VALIDATION_INVALID_SORT_FIELD"
	ValidationRequired         = "VALIDATION_REQUIRED"
	ValidationTooLong          = "VALIDATION_TOO_LONG"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Users (USER_) ====================
	UserNotFound    = "USER_NOT_FOUND"
	UserInvalidRole = "USER_INVALID_ROLE"

	// ==================== Stores (STORE_) ====================
	StoreNotFound      = "STORE_NOT_FOUND"
	StoreEmailExists   = "STORE_EMAIL_EXISTS"
	StoreOwnerNotFound = "STORE_OWNER_NOT_FOUND"
	StoreOwnerHasStore = "STORE_OWNER_HAS_STORE"

	// ==================== Ratings (RATING_) ====================
	RatingNotFound      = "RATING_NOT_FOUND"
	RatingInvalidValue  = "RATING_INVALID_VALUE"
	RatingReviewTooLong = "RATING_REVIEW_TOO_LONG"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
)
