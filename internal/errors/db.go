package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// "Key (name)=(faq) already exists."
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "... is still referenced from table "faq_tags"."
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "... is not present in table "faqs"."
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableNames maps tables onto the names users see in messages.
var tableNames = map[string]string{ //nolint:gochecknoglobals // read-only lookup
	"faqs":              "FAQ",
	"tags":              "Tag",
	"faq_tags":          "FAQ tag link",
	"question_variants": "Question variant",
	"faq_feedback":      "Feedback",
	"search_logs":       "Search log",
}

// MapDBError maps pgx and PostgreSQL errors onto AppError:
//   - pgx.ErrNoRows → NotFound
//   - unique violation → Conflict (with Field when derivable)
//   - foreign key violation → ForeignKey
//   - check / not-null violation → Validation
//   - context deadline / cancellation → Timeout / Canceled
//
// Unrecognised errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		e := Wrap(pgErr, ErrCodeConflict, "This value already exists. Please choose a different one.")
		e.Field = uniqueField(pgErr)
		return e
	case pgerrcode.ForeignKeyViolation:
		return Wrap(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		msg := "Invalid data. Please check your input."
		if pgErr.Code == pgerrcode.NotNullViolation {
			msg = "Required field is missing. Please check your input."
		}
		e := Wrap(pgErr, ErrCodeValidation, msg)
		e.Field = pgErr.ColumnName
		return e
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return fieldFromConstraint(pgErr.ConstraintName)
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot delete because this item is in use by " + displayTable(m[1]) + "."
	}
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot complete operation because the referenced " + displayTable(m[1]) + " does not exist."
	}
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + displayTable(pgErr.TableName) + "."
	}
	return "Cannot complete operation because this item is in use."
}

// fieldFromConstraint infers the column from "<table>_<column>_key" style
// names. Multi-column and expression constraints yield "".
func fieldFromConstraint(name string) string {
	for table := range tableNames {
		if rest, ok := strings.CutPrefix(name, table+"_"); ok {
			for _, suffix := range []string{"_key", "_unique", "_idx"} {
				if col, ok := strings.CutSuffix(rest, suffix); ok && col != "" && !strings.Contains(col, "_") && !isSQLFunction(col) {
					return col
				}
			}
		}
	}
	return ""
}

func isSQLFunction(s string) bool {
	switch strings.ToLower(s) {
	case "lower", "upper", "trim", "ltrim", "rtrim", "md5":
		return true
	}
	return false
}

// displayTable maps a table onto its user-facing name.
func displayTable(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if name, ok := tableNames[table]; ok {
		return name
	}
	words := strings.Fields(strings.ReplaceAll(table, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
