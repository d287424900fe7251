package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	cause := errors.New("connection refused")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "network error with cause",
			err:      NewNetworkError("fetch day.csv", cause),
			wantType: ErrTypeNetwork,
			wantMsg:  "[NETWORK] fetch day.csv: connection refused",
		},
		{
			name:     "parsing error",
			err:      NewParsingError("row 3: invalid date", nil),
			wantType: ErrTypeParsing,
			wantMsg:  "[PARSING] row 3: invalid date",
		},
		{
			name:     "not found error",
			err:      NewAppError(ErrTypeNotFound, "source day.csv not found", nil),
			wantType: ErrTypeNotFound,
			wantMsg:  "[NOT_FOUND] source day.csv not found",
		},
		{
			name:     "config error",
			err:      NewConfigError("bad source", cause),
			wantType: ErrTypeConfig,
			wantMsg:  "[CONFIG] bad source: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
			assert.True(t, IsType(tt.err, tt.wantType))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := fmt.Errorf("loading: %w", NewNetworkError("fetch", cause))

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsType(err, ErrTypeNetwork))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(cause, ErrTypeNetwork))
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewParsingError("bad row", nil).
		WithContext("row", 4).
		WithContext("column", "dteday")

	assert.Equal(t, map[string]interface{}{"row": 4, "column": "dteday"}, err.Context)

	bare := &AppError{Type: ErrTypeParsing}
	bare.WithContext("row", 1)
	assert.Equal(t, 1, bare.Context["row"])
}
