package errors

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForUser_BasicError(t *testing.T) {
	// Given: a SearchError
	err := NotFound("object was never added to this engine")

	// When: formatting for user (no debug)
	result := FormatForUser(err, false)

	// Then: contains message and code
	assert.Contains(t, result, "object was never added to this engine")
	assert.Contains(t, result, "[ERR_404_NOT_FOUND]")
}

func TestFormatForUser_WithSuggestion(t *testing.T) {
	// Given: an error with suggestion
	err := InvalidArgument("value is already a result set").
		WithSuggestion("Use Results.Search to query within a result set")

	// When: formatting for user
	result := FormatForUser(err, false)

	// Then: contains suggestion
	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "Results.Search")
}

func TestFormatForUser_CauseOnlyInDebug(t *testing.T) {
	err := New(ErrCodeIndexFailed, "batch write failed", errors.New("segment closed"))

	assert.NotContains(t, FormatForUser(err, false), "segment closed")
	assert.Contains(t, FormatForUser(err, true), "Cause: segment closed")
}

func TestFormatForUser_StandardError(t *testing.T) {
	// Given: a standard Go error
	err := errors.New("something went wrong")

	// Then: shows the plain message
	assert.Equal(t, "something went wrong", FormatForUser(err, false))
	assert.Empty(t, FormatForUser(nil, false))
}

func TestFormatJSON_BasicError(t *testing.T) {
	// Given: a SearchError with details
	err := New(ErrCodeFileNotFound, "file not found", nil).
		WithDetail("path", "/data/records.yaml").
		WithSuggestion("Check the file path")

	// When: formatting as JSON
	data, jsonErr := FormatJSON(err)

	// Then: valid JSON
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	// And: contains expected fields
	assert.Equal(t, ErrCodeFileNotFound, result["code"])
	assert.Equal(t, "file not found", result["message"])
	assert.Equal(t, string(CategoryIO), result["category"])
	assert.Equal(t, string(SeverityError), result["severity"])
	assert.Equal(t, "Check the file path", result["suggestion"])

	details, ok := result["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/data/records.yaml", details["path"])
}

func TestFormatJSON_StandardError(t *testing.T) {
	data, jsonErr := FormatJSON(errors.New("generic error"))
	require.NoError(t, jsonErr)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))

	assert.Equal(t, ErrCodeSearchFailed, result["code"])
	assert.Equal(t, "generic error", result["message"])
}

func TestFormatJSON_NilError(t *testing.T) {
	data, err := FormatJSON(nil)

	assert.NoError(t, err)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))
}

func TestFormatForCLI_ShortFormat(t *testing.T) {
	// Given: a fatal error
	err := InternalConsistency("hit id 42 missing from registry snapshot").
		WithSuggestion("This is a bug; please report it")

	// When: formatting for CLI
	result := FormatForCLI(err)

	// Then: is concise and carries the code
	assert.Contains(t, result, "hit id 42 missing")
	assert.Contains(t, result, "Code: ERR_501_INTERNAL_CONSISTENCY")
	lines := strings.Split(strings.TrimSpace(result), "\n")
	assert.LessOrEqual(t, len(lines), 3)
}

func TestFormatForLog_IncludesDetails(t *testing.T) {
	err := NotFound("unknown id").WithDetail("id", "abc")

	fields := FormatForLog(err)

	assert.Equal(t, ErrCodeNotFound, fields["error_code"])
	assert.Equal(t, "abc", fields["detail_id"])
	assert.Equal(t, map[string]any{"error": "plain"}, FormatForLog(errors.New("plain")))
	assert.Nil(t, FormatForLog(nil))
}
