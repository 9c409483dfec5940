package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidObjectID(t *testing.T) {
	assert.True(t, IsValidObjectID("64ff1a2b3c4d5e6f70819203"))
	assert.True(t, IsValidObjectID("ABCDEFabcdef012345678901"))
	assert.False(t, IsValidObjectID(""))
	assert.False(t, IsValidObjectID("64ff1a2b3c4d5e6f7081920"))    // 23 chars
	assert.False(t, IsValidObjectID("64ff1a2b3c4d5e6f708192034"))  // 25 chars
	assert.False(t, IsValidObjectID("zzff1a2b3c4d5e6f70819203"))   // non-hex
	assert.False(t, IsValidObjectID("64ff1a2b-3c4d-5e6f-708192"))  // dashes
}

func runIDChecker(t *testing.T, mw echo.MiddlewareFunc, names, values []string) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	return mw(next)(c)
}

func TestIDCheckerPassesValidID(t *testing.T) {
	err := runIDChecker(t, IDChecker("id"), []string{"id"}, []string{"64ff1a2b3c4d5e6f70819203"})
	assert.NoError(t, err)
}

func TestIDCheckerRejectsInvalidID(t *testing.T) {
	err := runIDChecker(t, IDChecker("id"), []string{"id"}, []string{"not-an-id"})
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Please enter a valid id number", he.Message)
}

func TestIDCheckerValidatesEveryNamedParam(t *testing.T) {
	valid := "64ff1a2b3c4d5e6f70819203"

	err := runIDChecker(t, IDChecker("id", "blogId"),
		[]string{"id", "blogId"}, []string{valid, valid})
	assert.NoError(t, err)

	err = runIDChecker(t, IDChecker("id", "blogId"),
		[]string{"id", "blogId"}, []string{valid, "nope"})
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
