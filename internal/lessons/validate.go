package lessons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

const lessonSchemaURL = "schema://lesson.json"

// Issue is one violated constraint in a candidate lesson document.
type Issue struct {
	// Path is a JSON pointer into the document, e.g. "/lessons/0/difficulty".
	Path string `json:"path"`
	// Constraint names the violated rule: required, type, enum, minItems,
	// exclusiveMinimum, member, unique, json.
	Constraint string `json:"constraint"`
	Message    string `json:"message"`
}

// ValidationError lists every constraint a document violated.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "invalid lesson"
	}
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		p := is.Path
		if p == "" {
			p = "/"
		}
		parts[i] = fmt.Sprintf("%s: %s (%s)", p, is.Message, is.Constraint)
	}
	return "invalid lesson: " + strings.Join(parts, "; ")
}

// Has reports whether any issue matches the given path and constraint.
func (e *ValidationError) Has(ptr, constraint string) bool {
	if e == nil {
		return false
	}
	for _, is := range e.Issues {
		if is.Path == ptr && is.Constraint == constraint {
			return true
		}
	}
	return false
}

func invalid(ptr, constraint, msg string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Path: ptr, Constraint: constraint, Message: msg}}}
}

var (
	compileOnce    sync.Once
	compiledLesson *jsonschema.Schema
	compileErr     error
)

// compiledSchema compiles lessonSchema on first use.
func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// Round-trip through JSON so the compiler sees the same value shapes
		// it produces when decoding documents.
		defBytes, err := json.Marshal(lessonSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal lesson schema: %w", err)
			return
		}
		def, err := jsonschema.UnmarshalJSON(bytes.NewReader(defBytes))
		if err != nil {
			compileErr = fmt.Errorf("parse lesson schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(lessonSchemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledLesson, compileErr = c.Compile(lessonSchemaURL)
	})
	return compiledLesson, compileErr
}

// ParseLesson decodes and validates an untrusted lesson document. It returns
// either a well-typed Lesson or the list of violated constraints; values are
// never coerced.
func ParseLesson(raw []byte) (Lesson, *ValidationError) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Lesson{}, invalid("", "json", err.Error())
	}

	if verr := Validate(doc); verr != nil {
		return Lesson{}, verr
	}

	var l Lesson
	if err := json.Unmarshal(raw, &l); err != nil {
		return Lesson{}, invalid("", "type", err.Error())
	}

	if verr := checkSemantics(l); verr != nil {
		return Lesson{}, verr
	}
	return l, nil
}

// Validate checks a decoded JSON value against the lesson schema only.
func Validate(doc any) *ValidationError {
	sch, err := compiledSchema()
	if err != nil {
		return invalid("", "schema", err.Error())
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return invalid("", "schema", err.Error())
	}
	return &ValidationError{Issues: issuesFrom(ve.BasicOutput())}
}

// ValidateLesson checks a typed Lesson by round-tripping it through the
// same path untrusted documents take.
func ValidateLesson(l Lesson) *ValidationError {
	raw, err := json.Marshal(l)
	if err != nil {
		return invalid("", "json", err.Error())
	}
	_, verr := ParseLesson(raw)
	return verr
}

// issuesFrom flattens the basic output into leaf issues, dropping the
// grouping units that only say "validation failed".
func issuesFrom(out *jsonschema.OutputUnit) []Issue {
	var issues []Issue
	for _, u := range out.Errors {
		if u.Error == nil {
			continue
		}
		switch u.Error.Kind.(type) {
		case *kind.Group, *kind.Schema, *kind.AllOf, *kind.Reference:
			continue
		}
		issues = append(issues, Issue{
			Path:       u.InstanceLocation,
			Constraint: path.Base(u.KeywordLocation),
			Message:    u.Error.String(),
		})
	}
	if len(issues) == 0 && out.Error != nil {
		issues = append(issues, Issue{
			Path:       out.InstanceLocation,
			Constraint: path.Base(out.KeywordLocation),
			Message:    out.Error.String(),
		})
	}
	return issues
}

func checkSemantics(l Lesson) *ValidationError {
	var issues []Issue
	unitIDs := make(map[string]bool, len(l.Lessons))

	for ui, u := range l.Lessons {
		unitPath := fmt.Sprintf("/lessons/%d", ui)
		if unitIDs[u.ID] {
			issues = append(issues, Issue{
				Path:       unitPath + "/id",
				Constraint: "unique",
				Message:    fmt.Sprintf("duplicate unit id %q", u.ID),
			})
		}
		unitIDs[u.ID] = true

		questionIDs := make(map[string]bool, len(u.Questions))
		for qi, q := range u.Questions {
			qPath := fmt.Sprintf("%s/questions/%d", unitPath, qi)
			if questionIDs[q.ID] {
				issues = append(issues, Issue{
					Path:       qPath + "/id",
					Constraint: "unique",
					Message:    fmt.Sprintf("duplicate question id %q", q.ID),
				})
			}
			questionIDs[q.ID] = true

			if len(q.Options) > 0 && !slices.Contains(q.Options, q.CorrectAnswer) {
				issues = append(issues, Issue{
					Path:       qPath + "/correctAnswer",
					Constraint: "member",
					Message:    fmt.Sprintf("correct answer %q is not one of the options", q.CorrectAnswer),
				})
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}
