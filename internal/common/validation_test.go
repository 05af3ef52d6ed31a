package common

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Check(MinLength("J", 2), "name", "Name must be at least 2 characters")
	errs.Check(MinLength("Acme", 2), "businessName", "Business name must be at least 2 characters")
	errs.Add("password", "Password must be at least 8 characters")

	err := errs.Err()
	require.Error(t, err)

	var got ValidationErrors
	require.True(t, errors.As(err, &got))
	assert.Equal(t, []string{"name", "password"}, []string{got[0].Field, got[1].Field})
	assert.Contains(t, err.Error(), "name: Name must be at least 2 characters")
}

func TestValidators(t *testing.T) {
	assert.True(t, MinLength("  ab ", 2))
	assert.False(t, MinLength("  a  ", 2))
	assert.True(t, MaxLength(strings.Repeat("x", 500), 500))
	assert.False(t, MaxLength(strings.Repeat("x", 501), 500))

	assert.True(t, ValidEmail("coach@acme.test"))
	assert.False(t, ValidEmail("coach"))
	assert.False(t, ValidEmail("Coach <coach@acme.test>"))

	assert.True(t, ValidPhone(""))
	assert.True(t, ValidPhone("+15551234567"))
	assert.True(t, ValidPhone("447911123456"))
	assert.False(t, ValidPhone("+0123"))
	assert.False(t, ValidPhone("555-1234"))

	assert.True(t, ValidURL(""))
	assert.True(t, ValidURL("https://cdn.example.com/p.png"))
	assert.False(t, ValidURL("not a url"))
	assert.False(t, ValidURL("/relative/path.png"))

	assert.True(t, ValidTimezone("America/New_York"))
	assert.True(t, ValidTimezone("UTC"))
	assert.False(t, ValidTimezone("Mars/Olympus"))
	assert.False(t, ValidTimezone(""))
}

func TestNullableString(t *testing.T) {
	assert.Nil(t, NullableString("   "))
	require.NotNil(t, NullableString(" bio "))
	assert.Equal(t, "bio", *NullableString(" bio "))
}

func TestValidateUUID(t *testing.T) {
	id := uuid.New()
	got, err := ValidateUUID(" "+id.String()+" ", "trainerId")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = ValidateUUID("", "trainerId")
	assert.EqualError(t, err, "trainerId is required")

	_, err = ValidateUUID("abc", "trainerId")
	assert.Error(t, err)
}

func TestSessionContext(t *testing.T) {
	userID, trainerID := uuid.New(), uuid.New()
	ctx := WithSession(context.Background(), userID, trainerID, "PRIMARY_TRAINER")

	got, ok := GetUserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	gotTrainer, ok := GetTrainerIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, trainerID, gotTrainer)

	role, ok := GetRoleFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "PRIMARY_TRAINER", role)

	_, ok = GetTrainerIDFromContext(WithSession(context.Background(), userID, uuid.Nil, "TRAINER"))
	assert.False(t, ok)
}

func TestHTTPErrorHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests"), c)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests","code":"TOO_MANY_REQUESTS"}`, rec.Body.String())
}

func TestHTTPErrorHandler_PlainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	HTTPErrorHandler(errors.New("boom"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","code":"INTERNAL_SERVER_ERROR"}`, rec.Body.String())
}
