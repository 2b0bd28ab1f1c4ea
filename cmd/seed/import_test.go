package main

import (
	"testing"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/repository"
	"github.com/ikkim/survei-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newWorkbook(t *testing.T, rows [][]interface{}) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	header := []interface{}{"Pertanyaan", "Jenis", "Opsi (dipisah ;)", "Kategori"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	return f
}

func TestReadQuestionRows(t *testing.T) {
	f := newWorkbook(t, [][]interface{}{
		{"Seberapa puas Anda?", "Rating", "", "Pelayanan"},
		{"Metode bayar", "pilihan ganda", "Tunai; QRIS ;;Debit", ""},
		{},
		{"Fasilitas favorit", "kotak centang", "Parkir", "Kebersihan"},
		{"Saran", "essay", "", ""},
		{"", "teks", "", ""},
	})

	rows, invalid, err := readQuestionRows(f)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, model.QuestionTypeRating, rows[0].Question.Type)
	assert.Empty(t, rows[0].Question.Options)
	assert.Equal(t, "Pelayanan", rows[0].Category)
	assert.Equal(t, []string{"Tunai", "QRIS", "Debit"}, []string(rows[1].Question.Options))

	lines := make([]int, 0, len(invalid))
	for _, e := range invalid {
		lines = append(lines, e.Line)
	}
	// 체크리스트 옵션 1개, 알 수 없는 jenis, 빈 질문
	assert.Equal(t, []int{5, 6, 7}, lines)
}

func TestQuestionImporter_Import(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	categories := repository.NewCategoryRepository(testDB)
	questions := repository.NewQuestionRepository(testDB)
	existing := &model.Category{Name: "Pelayanan", Color: "#2563EB", IsActive: true}
	require.NoError(t, categories.Create(existing))

	f := newWorkbook(t, [][]interface{}{
		{"Seberapa puas Anda?", "rating", "", "pelayanan"},
		{"Kecepatan kasir", "skala", "", "Kecepatan"},
		{"Antrian", "slider", "", "kecepatan"},
		{"Saran", "teks", "", ""},
	})
	rows, invalid, err := readQuestionRows(f)
	require.NoError(t, err)
	require.Empty(t, invalid)

	importer := &questionImporter{categories: categories, questions: questions}
	result := importer.Import(rows)

	assert.Equal(t, 4, result.Questions)
	assert.Equal(t, 1, result.Categories)
	assert.Empty(t, result.Errors)

	all, err := questions.FindAll(repository.QuestionFilter{CategoryID: existing.ID})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Seberapa puas Anda?", all[0].Text)

	created, err := categories.FindByName("KECEPATAN")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCategoryColor, created.Color)

	all, err = questions.FindAll(repository.QuestionFilter{CategoryID: created.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
