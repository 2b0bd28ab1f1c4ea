package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// 시트 컬럼: Pertanyaan | Jenis | Opsi (dipisah ;) | Kategori
const (
	colText = iota
	colType
	colOptions
	colCategory
)

var typeAliases = map[string]model.QuestionType{
	"text":            model.QuestionTypeText,
	"teks":            model.QuestionTypeText,
	"isian":           model.QuestionTypeText,
	"rating":          model.QuestionTypeRating,
	"multiple_choice": model.QuestionTypeMultipleChoice,
	"pilihan ganda":   model.QuestionTypeMultipleChoice,
	"checklist":       model.QuestionTypeChecklist,
	"kotak centang":   model.QuestionTypeChecklist,
	"slider":          model.QuestionTypeSlider,
	"skala":           model.QuestionTypeSlider,
}

type questionRow struct {
	Line     int // 1-based sheet row
	Question model.Question
	Category string
}

type rowError struct {
	Line int
	Err  error
}

func (e rowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func cell(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// readQuestionRows parses the first sheet. The first row is the header and
// blank rows are ignored. Rows that fail validation come back as rowErrors.
func readQuestionRows(f *excelize.File) ([]questionRow, []rowError, error) {
	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("no sheets found in XLSX file")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("no data found in XLSX file")
	}

	var (
		out     []questionRow
		invalid []rowError
	)
	for i, row := range rows[1:] {
		line := i + 2
		if strings.Join(row, "") == "" {
			continue
		}

		rawType := strings.ToLower(cell(row, colType))
		qType, ok := typeAliases[rawType]
		if !ok {
			invalid = append(invalid, rowError{Line: line, Err: fmt.Errorf("jenis pertanyaan tidak dikenal: %q", rawType)})
			continue
		}

		q := model.Question{
			Text:     cell(row, colText),
			Type:     qType,
			Options:  strings.Split(cell(row, colOptions), ";"),
			IsActive: true,
		}
		q.Normalize()
		if err := q.Validate(); err != nil {
			invalid = append(invalid, rowError{Line: line, Err: err})
			continue
		}
		out = append(out, questionRow{Line: line, Question: q, Category: cell(row, colCategory)})
	}
	return out, invalid, nil
}

type importResult struct {
	Questions  int
	Categories int
	Errors     []rowError
}

type questionImporter struct {
	categories repository.CategoryRepository
	questions  repository.QuestionRepository

	categoryIDs map[string]string // lower(name) -> id
}

// Import creates the rows' questions, creating categories by name on first use.
// A failing row does not stop the import.
func (im *questionImporter) Import(rows []questionRow) importResult {
	if im.categoryIDs == nil {
		im.categoryIDs = make(map[string]string)
	}

	var result importResult
	for _, row := range rows {
		q := row.Question
		if row.Category != "" {
			id, created, err := im.categoryID(row.Category)
			if err != nil {
				result.Errors = append(result.Errors, rowError{Line: row.Line, Err: err})
				continue
			}
			if created {
				result.Categories++
			}
			q.CategoryID = id
		}
		if err := im.questions.Create(&q); err != nil {
			result.Errors = append(result.Errors, rowError{Line: row.Line, Err: err})
			continue
		}
		result.Questions++
	}
	return result
}

func (im *questionImporter) categoryID(name string) (string, bool, error) {
	key := strings.ToLower(name)
	if id, ok := im.categoryIDs[key]; ok {
		return id, false, nil
	}

	existing, err := im.categories.FindByName(name)
	if err == nil {
		im.categoryIDs[key] = existing.ID
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	category := &model.Category{Name: name, IsActive: true}
	category.Normalize()
	if err := im.categories.Create(category); err != nil {
		return "", false, err
	}
	im.categoryIDs[key] = category.ID
	return category.ID, true, nil
}
