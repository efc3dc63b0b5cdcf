package errors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError_DuplicateKey(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "One active store per owner index",
			err:      errors.New(`duplicate key value violates unique constraint "idx_stores_active_owner"`),
			wantCode: StoreOwnerHasStore,
		},
		{
			name:     "Store email index",
			err:      errors.New(`duplicate key value violates unique constraint "idx_stores_email"`),
			wantCode: StoreEmailExists,
		},
		{
			name:     "User email index",
			err:      errors.New(`duplicate key value violates unique constraint "idx_users_email"`),
			wantCode: AuthEmailAlreadyExists,
		},
		{
			name:     "Rating per user per store index",
			err:      errors.New(`duplicate key value violates unique constraint "idx_ratings_user_store"`),
			wantCode: ResourceConflict,
		},
		{
			name:     "Sqlite store owner columns",
			err:      errors.New("UNIQUE constraint failed: stores.owner_id"),
			wantCode: StoreOwnerHasStore,
		},
		{
			name:     "Unknown unique index",
			err:      errors.New(`duplicate key value violates unique constraint "idx_something_else"`),
			wantCode: ResourceAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, "update store")
			assert.Equal(t, tt.wantCode, info.Code)
		})
	}
}

func TestParseError_NotFound(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "get store")
	assert.Equal(t, ResourceNotFound, info.Code)
	assert.Equal(t, "Store not found", info.Message)
}

type jsonRecorder struct {
	status int
	body   interface{}
}

func (r *jsonRecorder) JSON(status int, body interface{}) {
	r.status = status
	r.body = body
}

func TestParseAndRespond_ConflictStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "Constraint conflict overrides the fallback status",
			err:        errors.New(`duplicate key value violates unique constraint "idx_stores_active_owner"`),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "Unrecognized error keeps the fallback status",
			err:        errors.New("something unexpected"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &jsonRecorder{}
			ParseAndRespond(rec, http.StatusInternalServerError, tt.err, "update store")
			assert.Equal(t, tt.wantStatus, rec.status)
		})
	}
}
