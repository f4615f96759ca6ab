package services

import (
	"testing"

	"github.com/SAP-F-2025/override-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverrideTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"valid positive offset", "2024-01-01 08:00 +10:00", true},
		{"valid negative offset", "2024-06-15 23:59 -05:30", true},
		{"valid utc", "2024-01-01 00:00 +00:00", true},
		{"missing offset", "2024-01-01 08:00", false},
		{"seconds present", "2024-01-01 08:00:00 +10:00", false},
		{"unpadded month", "2024-1-01 08:00 +10:00", false},
		{"unpadded hour", "2024-01-01 8:00 +10:00", false},
		{"slashed date", "01/01/2024 08:00 +10:00", false},
		{"day out of range", "2024-02-30 08:00 +10:00", false},
		{"month out of range", "2024-13-01 08:00 +10:00", false},
		{"garbage", "tomorrow", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := parseOverrideTime(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				// Strict round-trip: the value renders back to itself.
				assert.Equal(t, tt.value, parsed.Format(overrideTimeLayout))
			}
		})
	}
}

func TestParseNonNegativeInt(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"3600", 3600, false},
		{"-1", 0, true},
		{"+1", 0, true},
		{"1.5", 0, true},
		{"1e3", 0, true},
		{"", 0, true},
		{" 1", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseNonNegativeInt(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyAction(t *testing.T) {
	existing := &models.QuizOverride{ID: 9}

	tests := []struct {
		name             string
		valueFieldsEmpty bool
		existing         *models.QuizOverride
		want             models.ImportAction
	}{
		{"values with no existing override", false, nil, models.ActionInsert},
		{"values with existing override", false, existing, models.ActionUpdate},
		{"empty with existing override", true, existing, models.ActionDelete},
		{"empty with no existing override", true, nil, models.ActionSkip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyAction(tt.valueFieldsEmpty, tt.existing))
		})
	}
}

func TestExpectedColumns(t *testing.T) {
	assert.Equal(t, "userid", expectedColumns(models.ModeUser)[0])
	assert.Equal(t, "groupid", expectedColumns(models.ModeGroup)[0])
	assert.Len(t, expectedColumns(models.ModeUser), 9)

	// Order matters; a permutation does not match.
	permuted := append([]string{}, userModeColumns...)
	permuted[0], permuted[1] = permuted[1], permuted[0]
	assert.False(t, columnsMatch(userModeColumns, permuted))
	assert.True(t, columnsMatch(userModeColumns, userModeColumns))
	assert.False(t, columnsMatch(userModeColumns, userModeColumns[:8]))
}

func TestImportRowFields(t *testing.T) {
	record := []string{" 42 ", "stu-42", "Student 42", " 2024-01-01 08:00 +10:00 ", "", "3600", "1", " secret", "1"}
	fields := newImportRowFields(record)

	// Cells are trimmed except the password, whose whitespace must be flagged.
	assert.Equal(t, "42", fields.SubjectText)
	assert.Equal(t, "2024-01-01 08:00 +10:00", fields.TimeOpenText)
	assert.Equal(t, " secret", fields.PasswordText)
	assert.Equal(t, "1", fields.GenerateText)
	assert.False(t, fields.ValueFieldsEmpty())

	// Short rows read as empty cells.
	short := newImportRowFields([]string{"42", "stu-42", "Student 42"})
	assert.Equal(t, "42", short.SubjectText)
	assert.True(t, short.ValueFieldsEmpty())
}

func TestSynthesizePassword(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		password, err := synthesizePassword(generatedPasswordLength)
		require.NoError(t, err)
		assert.Len(t, password, generatedPasswordLength)
		for _, c := range password {
			assert.Contains(t, passwordAlphabet, string(c))
		}
		seen[password] = true
	}
	// Ten draws from a 62^20 space never collide.
	assert.Len(t, seen, 10)
}

func TestBuildOverride(t *testing.T) {
	limit := 3600
	subjectID := uint(42)
	parsed := parsedOverrideRow{SubjectID: &subjectID, TimeLimit: &limit}

	override, err := buildOverride(7, models.ModeUser, parsed)
	require.NoError(t, err)
	assert.Equal(t, uint(7), override.QuizID)
	require.NotNil(t, override.UserID)
	assert.Equal(t, uint(42), *override.UserID)
	assert.Nil(t, override.GroupID)
	assert.Nil(t, override.Password)

	parsed.Generate = true
	override, err = buildOverride(7, models.ModeGroup, parsed)
	require.NoError(t, err)
	require.NotNil(t, override.GroupID)
	assert.Nil(t, override.UserID)
	require.NotNil(t, override.Password)
	assert.Len(t, *override.Password, generatedPasswordLength)
}
