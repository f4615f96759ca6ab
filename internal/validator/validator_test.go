package validator

import (
	"testing"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_OverrideBuiltByPipeline(t *testing.T) {
	v := New()

	// An override as the import pipeline assembles it: only the quiz id is
	// set, the Quiz association stays zero-valued. The association must not
	// be validated or every override would fail on quiz fields it never
	// carries.
	userID := uint(42)
	limit := 3600
	attempts := 1
	password := "secret"
	override := &models.QuizOverride{
		QuizID:    7,
		UserID:    &userID,
		TimeLimit: &limit,
		Attempts:  &attempts,
		Password:  &password,
	}

	assert.NoError(t, v.Validate(override))

	// Minimal delete-style override with nothing but the subject.
	assert.NoError(t, v.Validate(&models.QuizOverride{QuizID: 7, UserID: &userID}))
}

func TestValidate_OverrideFieldRules(t *testing.T) {
	v := New()
	userID := uint(42)

	padded := " secret"
	err := v.Validate(&models.QuizOverride{QuizID: 7, UserID: &userID, Password: &padded})
	require.Error(t, err)

	var validationErrors ValidationErrors
	require.ErrorAs(t, err, &validationErrors)
	require.Len(t, validationErrors, 1)
	assert.Equal(t, "password", validationErrors[0].Field)

	negative := -1
	err = v.Validate(&models.QuizOverride{QuizID: 7, UserID: &userID, Attempts: &negative})
	require.ErrorAs(t, err, &validationErrors)
	assert.Equal(t, "attempts", validationErrors[0].Field)
}
