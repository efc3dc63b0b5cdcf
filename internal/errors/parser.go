package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the parsed form of a storage error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts GORM/Postgres errors into a user-facing code and
// message. Internal detail stays in the server logs; the caller only sees
// which kind of failure happened and, for conflicts, which field collided.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An internal error occurred",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// Unique constraint violation (Postgres 23505, sqlite "UNIQUE constraint failed")
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower)
	}

	// Check constraint violation (23514) - only the rating range check exists
	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{
				Code:    RatingInvalidValue,
				Message: "Rating must be an integer between 1 and 5",
			}
		}
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "Input value is not valid",
		}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The storage backend is unavailable. Please try again later",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: "An internal error occurred. Please try again later",
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	// The ratings (user_id, store_id) unique index is the upsert backstop:
	// hitting it means a concurrent duplicate submission lost the race.
	if strings.Contains(errLower, "idx_ratings_user_store") ||
		(strings.Contains(errLower, "ratings") && strings.Contains(errLower, "user_id")) {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "A rating for this store already exists for this user",
		}
	}

	// Checked before the store email branch: the partial index name also
	// contains "stores".
	if strings.Contains(errLower, "idx_stores_active_owner") ||
		(strings.Contains(errLower, "stores") && strings.Contains(errLower, "owner_id")) {
		return ErrorInfo{
			Code:    StoreOwnerHasStore,
			Message: "This owner already has an active store",
		}
	}

	if strings.Contains(errLower, "idx_stores_email") || strings.Contains(errLower, "stores") {
		return ErrorInfo{
			Code:    StoreEmailExists,
			Message: "A store with this email is already registered",
		}
	}

	if strings.Contains(errLower, "idx_users_email") || strings.Contains(errLower, "email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "A user with this email is already registered",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "The resource already exists",
	}
}

func parseForeignKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "The resource is referenced by other records and cannot be removed",
		}
	}
	if strings.Contains(errLower, "owner_id") || strings.Contains(errLower, "user_id") {
		return ErrorInfo{
			Code:    UserNotFound,
			Message: "The referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "store_id") {
		return ErrorInfo{
			Code:    StoreNotFound,
			Message: "The referenced store does not exist",
		}
	}
	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced resource does not exist",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "store") {
		return "Store not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "rating") {
		return "Rating not found"
	}
	return "The requested resource was not found"
}

// ParseAndRespond parses err and writes the resulting error response.
// statusCode is the fallback; a constraint violation the parser recognizes as
// a conflict is reported as 409 so the database backstops behind the service
// pre-checks never surface as server errors.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	if isConflictCode(errorInfo.Code) {
		statusCode = http.StatusConflict
	}
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}

func isConflictCode(code string) bool {
	switch code {
	case ResourceConflict, ResourceAlreadyExists,
		StoreEmailExists, StoreOwnerHasStore, AuthEmailAlreadyExists:
		return true
	}
	return false
}
