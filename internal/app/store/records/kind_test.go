package records_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/civichub/internal/app/store/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_EnumDefault(t *testing.T) {
	set, _, err := records.Workers.Normalize(map[string]string{"name": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Worker", set["position"])

	set, _, err = records.Projects.Normalize(map[string]string{"title": "Bridge", "body": "Span the river"})
	require.NoError(t, err)
	assert.Equal(t, "Infrastructure", set["category"])
}

func TestNormalize_EnumRejectsUnknown(t *testing.T) {
	_, _, err := records.Projects.Normalize(map[string]string{
		"title": "Zoo", "body": "Animals", "category": "Zoology",
	})
	require.Error(t, err)
	var ve *records.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "category", ve.Field)
	assert.True(t, strings.HasPrefix(ve.Msg, "Category must be one of:"), ve.Msg)

	_, _, err = records.Workers.Normalize(map[string]string{"name": "Asha", "position": "Pilot"})
	assert.True(t, records.IsValidation(err))
}

func TestNormalize_Required(t *testing.T) {
	_, _, err := records.Workers.Normalize(map[string]string{"name": "   "})
	var ve *records.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)
	assert.Equal(t, "Name is required.", ve.Msg)

	// a body that sanitizes to nothing is missing
	_, _, err = records.News.Normalize(map[string]string{"title": "Hi", "body": "<script>alert(1)</script>"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "body", ve.Field)
}

func TestNormalize_Email(t *testing.T) {
	_, _, err := records.Workers.Normalize(map[string]string{"name": "Asha", "email": "not-an-email"})
	var ve *records.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	set, unset, err := records.Workers.Normalize(map[string]string{"name": "Asha", "email": "Asha@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", set["email_ci"])
	assert.NotContains(t, unset, "email_ci")

	set, unset, err = records.Workers.Normalize(map[string]string{"name": "Asha"})
	require.NoError(t, err)
	assert.NotContains(t, set, "email_ci")
	assert.Contains(t, unset, "email_ci")
}

func TestNormalize_FoldAndSanitize(t *testing.T) {
	set, _, err := records.Investments.Normalize(map[string]string{
		"title": "  Solar FARM ",
		"body":  `<p onclick="x()">Panels</p>`,
	})
	require.NoError(t, err)
	assert.Equal(t, "Solar FARM", set["title"])
	assert.Equal(t, "solar farm", set["title_ci"])
	assert.Equal(t, "<p>Panels</p>", set["body"])
}

func TestNormalize_IgnoresUnknownFields(t *testing.T) {
	set, _, err := records.News.Normalize(map[string]string{
		"title": "Hello", "body": "World",
		"user_id": "507f1f77bcf86cd799439011", "created_at": "yesterday",
	})
	require.NoError(t, err)
	assert.NotContains(t, set, "user_id")
	assert.NotContains(t, set, "created_at")
}

func TestField_Required(t *testing.T) {
	f, ok := records.Workers.Field("name")
	require.True(t, ok)
	assert.True(t, f.Required())

	f, ok = records.Workers.Field("email")
	require.True(t, ok)
	assert.False(t, f.Required())

	_, ok = records.Workers.Field("nope")
	assert.False(t, ok)
}

func TestConflictError_Message(t *testing.T) {
	err := &records.ConflictError{Kind: "Worker", Field: "email"}
	assert.Equal(t, "A worker with this email already exists.", err.Error())
	assert.True(t, records.IsConflict(err))
	assert.False(t, records.IsValidation(err))
}
