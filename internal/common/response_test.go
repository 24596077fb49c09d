package common_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alpenride/booking-api/internal/common"
)

func TestWriteErrorRendersAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	appErr := common.NewAppError("SESSION_NOT_FOUND", "session does not exist", http.StatusNotFound, nil)
	common.WriteError(rec, appErr)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"SESSION_NOT_FOUND"`)
	require.Contains(t, rec.Body.String(), "session does not exist")
}

func TestWriteErrorUnwrapsWrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	appErr := common.NewAppError("CHECKOUT_BLOCKED", "blocked", http.StatusUnprocessableEntity, nil)
	common.WriteError(rec, fmt.Errorf("confirm: %w", appErr))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteError(rec, errors.New("redis exploded at 10.0.0.3"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), `"code":"INTERNAL"`)
	require.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	appErr := common.NewAppError("X", "x", http.StatusBadRequest, inner)
	require.ErrorIs(t, appErr, inner)
	require.True(t, common.IsAppError(appErr))
	require.False(t, common.IsAppError(inner))
	require.Equal(t, "inner", appErr.Error())
}
