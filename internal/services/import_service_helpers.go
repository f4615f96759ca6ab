package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/override-service/internal/models"
)

// Expected header sequences, exact and order-sensitive per mode.
var (
	userModeColumns = []string{
		"userid", "useridnumber", "username",
		"timeopen", "timeclose", "timelimit", "attempts", "password", "generate",
	}
	groupModeColumns = []string{
		"groupid", "groupidnumber", "groupname",
		"timeopen", "timeclose", "timelimit", "attempts", "password", "generate",
	}
)

// overrideTimeLayout is the required date-time cell format, e.g.
// "2024-01-01 08:00 +10:00". Parsing is strict round-trip: a cell that does
// not re-render to itself is rejected.
const overrideTimeLayout = "2006-01-02 15:04 -07:00"

const generatedPasswordLength = 20

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// expectedColumns returns the exact header sequence for the mode.
func expectedColumns(mode models.ImportMode) []string {
	if mode == models.ModeGroup {
		return groupModeColumns
	}
	return userModeColumns
}

func columnsMatch(expected, actual []string) bool {
	if len(expected) != len(actual) {
		return false
	}
	for i := range expected {
		if expected[i] != actual[i] {
			return false
		}
	}
	return true
}

// importRowFields holds one data row's raw cells by meaning. The two columns
// after the subject id (idnumber, name) are display-only in the file and are
// not read back.
type importRowFields struct {
	SubjectText   string
	TimeOpenText  string
	TimeCloseText string
	TimeLimitText string
	AttemptsText  string
	PasswordText  string
	GenerateText  string
}

func newImportRowFields(record []string) importRowFields {
	cell := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return importRowFields{
		SubjectText:   cell(0),
		TimeOpenText:  cell(3),
		TimeCloseText: cell(4),
		TimeLimitText: cell(5),
		AttemptsText:  cell(6),
		PasswordText:  rawCell(record, 7),
		GenerateText:  cell(8),
	}
}

// rawCell reads a cell without trimming; password whitespace is validated,
// not silently stripped.
func rawCell(record []string, i int) string {
	if i < len(record) {
		return record[i]
	}
	return ""
}

// ValueFieldsEmpty reports whether all six override-value cells are empty.
// Such a row either deletes an existing override or contributes nothing.
func (f importRowFields) ValueFieldsEmpty() bool {
	return f.TimeOpenText == "" && f.TimeCloseText == "" &&
		f.TimeLimitText == "" && f.AttemptsText == "" &&
		f.PasswordText == "" && f.GenerateText == ""
}

// parsedOverrideRow carries the typed values of one validated row. Empty
// cells map to nil; the literal empty string is never carried forward.
type parsedOverrideRow struct {
	SubjectID *uint
	TimeOpen  *time.Time
	TimeClose *time.Time
	TimeLimit *int
	Attempts  *int
	Password  *string
	Generate  bool
}

// subjectErrorKey is the field-error key for the mode's id column.
func subjectErrorKey(mode models.ImportMode) string {
	if mode == models.ModeGroup {
		return "groupid"
	}
	return "userid"
}

// validateRow checks every field rule independently and returns the per-field
// error map alongside whatever values parsed cleanly. Multiple errors may
// fire for one row; none of them stops the remaining checks. The only storage
// access is the user/group existence lookup.
func (s *overrideImportService) validateRow(ctx context.Context, mode models.ImportMode, courseID uint, f importRowFields) (parsedOverrideRow, map[string]string, error) {
	var parsed parsedOverrideRow
	fieldErrors := make(map[string]string)

	// Subject id: present, numeric and resolvable for the active mode.
	if f.SubjectText == "" {
		fieldErrors[subjectErrorKey(mode)] = "missing " + subjectErrorKey(mode)
	} else {
		subjectID, err := parseUintCell(f.SubjectText)
		if err != nil {
			fieldErrors[subjectErrorKey(mode)] = unknownSubjectMessage(mode)
		} else {
			exists, lookupErr := s.subjectExists(ctx, mode, subjectID, courseID)
			if lookupErr != nil {
				return parsed, nil, lookupErr
			}
			if !exists {
				fieldErrors[subjectErrorKey(mode)] = unknownSubjectMessage(mode)
			}
			parsed.SubjectID = &subjectID
		}
	}

	// Open/close times: strict round-trip parse, then ordering.
	if f.TimeOpenText != "" {
		if t, ok := parseOverrideTime(f.TimeOpenText); ok {
			parsed.TimeOpen = &t
		} else {
			fieldErrors["timeopen"] = "invalid date-time, expected YYYY-MM-DD HH:MM +HH:MM"
		}
	}
	if f.TimeCloseText != "" {
		if t, ok := parseOverrideTime(f.TimeCloseText); ok {
			parsed.TimeClose = &t
		} else {
			fieldErrors["timeclose"] = "invalid date-time, expected YYYY-MM-DD HH:MM +HH:MM"
		}
	}
	if parsed.TimeOpen != nil && parsed.TimeClose != nil &&
		fieldErrors["timeopen"] == "" && fieldErrors["timeclose"] == "" &&
		parsed.TimeOpen.After(*parsed.TimeClose) {
		fieldErrors["timeopen"] = "open time must not be after close time"
	}

	if f.TimeLimitText != "" {
		if n, err := parseNonNegativeInt(f.TimeLimitText); err != nil {
			fieldErrors["timelimit"] = "must be a whole non-negative number of seconds"
		} else {
			parsed.TimeLimit = &n
		}
	}

	if f.AttemptsText != "" {
		if n, err := parseNonNegativeInt(f.AttemptsText); err != nil {
			fieldErrors["attempts"] = "must be a whole non-negative number"
		} else {
			parsed.Attempts = &n
		}
	}

	if f.PasswordText != "" {
		if f.PasswordText != strings.TrimSpace(f.PasswordText) {
			fieldErrors["password"] = "must not have leading or trailing whitespace"
		} else {
			password := f.PasswordText
			parsed.Password = &password
		}
	}

	switch f.GenerateText {
	case "":
	case "1":
		parsed.Generate = true
	case "0":
	default:
		fieldErrors["generate"] = "must be 1 or 0"
	}

	return parsed, fieldErrors, nil
}

func (s *overrideImportService) subjectExists(ctx context.Context, mode models.ImportMode, subjectID, courseID uint) (bool, error) {
	if mode == models.ModeGroup {
		return s.repo.Group().ExistsInCourse(ctx, subjectID, courseID)
	}
	return s.repo.User().ExistsByID(ctx, subjectID)
}

func unknownSubjectMessage(mode models.ImportMode) string {
	if mode == models.ModeGroup {
		return "no group with this id in the course"
	}
	return "no user with this id"
}

// parseOverrideTime parses a date-time cell strictly: the parsed value must
// re-render to the exact input string.
func parseOverrideTime(value string) (time.Time, bool) {
	t, err := time.Parse(overrideTimeLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	if t.Format(overrideTimeLayout) != value {
		return time.Time{}, false
	}
	return t, true
}

// parseNonNegativeInt accepts whole non-negative decimal integers only; signs
// and fractions are rejected.
func parseNonNegativeInt(value string) (int, error) {
	n, err := strconv.ParseUint(value, 10, 31)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func parseUintCell(value string) (uint, error) {
	n, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// buildOverride assembles the override a row will commit. The generated
// password is synthesized here, at preview time, so the user confirms the
// exact value that will be stored.
func buildOverride(quizID uint, mode models.ImportMode, parsed parsedOverrideRow) (models.QuizOverride, error) {
	override := models.QuizOverride{
		QuizID:    quizID,
		TimeOpen:  parsed.TimeOpen,
		TimeClose: parsed.TimeClose,
		TimeLimit: parsed.TimeLimit,
		Attempts:  parsed.Attempts,
		Password:  parsed.Password,
	}
	if parsed.SubjectID != nil {
		override.SetSubject(mode, *parsed.SubjectID)
	}
	if parsed.Generate {
		password, err := synthesizePassword(generatedPasswordLength)
		if err != nil {
			return override, err
		}
		override.Password = &password
	}
	return override, nil
}

// synthesizePassword draws length characters uniformly from the password
// alphabet using crypto/rand.
func synthesizePassword(length int) (string, error) {
	var b strings.Builder
	b.Grow(length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := 0; i < length; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// classifyAction applies the reconciliation rules: an all-empty row deletes
// an existing override or contributes nothing; any other row updates when an
// override exists and inserts when it does not.
func classifyAction(valueFieldsEmpty bool, existing *models.QuizOverride) models.ImportAction {
	if valueFieldsEmpty {
		if existing != nil {
			return models.ActionDelete
		}
		return models.ActionSkip
	}
	if existing != nil {
		return models.ActionUpdate
	}
	return models.ActionInsert
}
