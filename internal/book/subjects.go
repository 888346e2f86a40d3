package book

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/tally/internal/model"
)

var subjectHeader = []string{"subject_id", "code", "name", "direction", "parent_id", "active"}

const (
	colSubjectID = iota
	colSubjectCode
	colSubjectName
	colSubjectDir
	colSubjectParent
	colSubjectActive
)

// ReadSubjects reads subjects.csv.
func ReadSubjects(r io.Reader) ([]model.Subject, error) {
	subjects, err := readTable(r, subjectHeader, UnmarshalSubject)
	if err != nil {
		return nil, fmt.Errorf("reading subjects: %w", err)
	}
	return subjects, nil
}

// WriteSubjects writes subjects.csv.
func WriteSubjects(w io.Writer, subjects []model.Subject) error {
	return writeTable(w, subjectHeader, subjects, MarshalSubject)
}

// MarshalSubject converts a Subject to a CSV row.
func MarshalSubject(s model.Subject) []string {
	row := make([]string, len(subjectHeader))
	row[colSubjectID] = s.ID
	row[colSubjectCode] = s.Code
	row[colSubjectName] = s.Name
	row[colSubjectDir] = string(s.Direction)
	row[colSubjectParent] = s.ParentID
	row[colSubjectActive] = strconv.FormatBool(s.Active)
	return row
}

// UnmarshalSubject converts a CSV row to a Subject. Direction accepts 借/贷.
// A blank active column means active.
func UnmarshalSubject(record []string) (model.Subject, error) {
	dir, err := model.ParseDirection(record[colSubjectDir])
	if err != nil {
		return model.Subject{}, fmt.Errorf("subject %s: %w", record[colSubjectCode], err)
	}
	active := true
	if record[colSubjectActive] != "" {
		active, err = parseBool("active", record[colSubjectActive])
		if err != nil {
			return model.Subject{}, err
		}
	}
	return model.Subject{
		ID:        record[colSubjectID],
		Code:      record[colSubjectCode],
		Name:      record[colSubjectName],
		Direction: dir,
		ParentID:  record[colSubjectParent],
		Active:    active,
	}, nil
}

var categoryHeader = []string{"category_id", "name", "kind"}

// ReadCategories reads categories.csv.
func ReadCategories(r io.Reader) ([]model.Category, error) {
	cats, err := readTable(r, categoryHeader, func(rec []string) (model.Category, error) {
		kind := model.CategoryKind(rec[2])
		if kind != "" && kind != model.CategoryIncome && kind != model.CategoryExpense {
			return model.Category{}, fmt.Errorf("category %s: unknown kind %q", rec[0], rec[2])
		}
		return model.Category{ID: rec[0], Name: rec[1], Kind: kind}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return cats, nil
}

// WriteCategories writes categories.csv.
func WriteCategories(w io.Writer, cats []model.Category) error {
	return writeTable(w, categoryHeader, cats, func(c model.Category) []string {
		return []string{c.ID, c.Name, string(c.Kind)}
	})
}

var auxiliaryHeader = []string{"key", "type", "name"}

// ReadAuxiliary reads auxiliary.csv.
func ReadAuxiliary(r io.Reader) ([]model.AuxiliaryItem, error) {
	items, err := readTable(r, auxiliaryHeader, func(rec []string) (model.AuxiliaryItem, error) {
		return model.AuxiliaryItem{Key: rec[0], Type: rec[1], Name: rec[2]}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading auxiliary items: %w", err)
	}
	return items, nil
}

// WriteAuxiliary writes auxiliary.csv.
func WriteAuxiliary(w io.Writer, items []model.AuxiliaryItem) error {
	return writeTable(w, auxiliaryHeader, items, func(a model.AuxiliaryItem) []string {
		return []string{a.Key, a.Type, a.Name}
	})
}
