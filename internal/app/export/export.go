// Package export renders survey responses as spreadsheet rows, either one row
// per answered question (long) or one row per customer (wide).
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ikkim/survei-backend/internal/app/model"
	"github.com/ikkim/survei-backend/internal/app/survey"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatLong Format = "long"
	FormatWide Format = "wide"
)

const (
	LongSheet  = "Jawaban"
	WideSheet  = "Rekap"
	DateLayout = "2006-01-02 15:04"
)

var (
	LongHeader     = []string{"Toko", "Grup", "Pertanyaan", "Jenis", "Pelanggan", "Telepon", "Jawaban", "Tanggal"}
	WideBaseHeader = []string{"Nama", "Whatsapp", "Toko", "Tanggal Submit"}
)

var typeLabels = map[model.QuestionType]string{
	model.QuestionTypeText:           "Teks",
	model.QuestionTypeRating:         "Rating",
	model.QuestionTypeMultipleChoice: "Pilihan Ganda",
	model.QuestionTypeChecklist:      "Checklist",
	model.QuestionTypeSlider:         "Slider",
}

// ParseFormat accepts "long", "wide" or empty (long).
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatLong:
		return FormatLong, nil
	case FormatWide:
		return FormatWide, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func TypeLabel(t model.QuestionType) string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func answerText(a model.AnswerValue) string {
	if a == nil {
		return ""
	}
	return a.String()
}

// newestFirst returns a sorted copy; ties keep input order.
func newestFirst(responses []model.SurveyResponse) []model.SurveyResponse {
	out := make([]model.SurveyResponse, len(responses))
	copy(out, responses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

// LongRows has one row per answered question, responses newest first and
// questions in each response's reconstructed order. The header is not included.
func LongRows(responses []model.SurveyResponse, loc *time.Location) [][]string {
	if loc == nil {
		loc = time.UTC
	}
	var rows [][]string
	for _, r := range newestFirst(responses) {
		date := r.SubmittedAt.In(loc).Format(DateLayout)
		for _, section := range survey.Reconstruct(&r) {
			for _, item := range section.Items {
				rows = append(rows, []string{
					r.StoreName,
					section.Name,
					item.QuestionText,
					TypeLabel(item.QuestionType),
					r.CustomerInfo.Name,
					r.CustomerInfo.Phone,
					answerText(item.Answer),
					date,
				})
			}
		}
	}
	return rows
}

// WideRows has one row per response and one column per distinct question text,
// in first-seen order. Unanswered cells are empty.
func WideRows(responses []model.SurveyResponse, loc *time.Location) (header []string, rows [][]string) {
	if loc == nil {
		loc = time.UTC
	}
	sorted := newestFirst(responses)

	type cells map[string]string
	var columns []string
	colSeen := map[string]struct{}{}
	perResponse := make([]cells, 0, len(sorted))

	for i := range sorted {
		values := cells{}
		for _, section := range survey.Reconstruct(&sorted[i]) {
			for _, item := range section.Items {
				if _, ok := colSeen[item.QuestionText]; !ok {
					colSeen[item.QuestionText] = struct{}{}
					columns = append(columns, item.QuestionText)
				}
				if _, ok := values[item.QuestionText]; !ok {
					values[item.QuestionText] = answerText(item.Answer)
				}
			}
		}
		perResponse = append(perResponse, values)
	}

	header = append(append([]string{}, WideBaseHeader...), columns...)
	rows = make([][]string, 0, len(sorted))
	for i, r := range sorted {
		row := []string{
			r.CustomerInfo.Name,
			r.CustomerInfo.Phone,
			r.StoreName,
			r.SubmittedAt.In(loc).Format(DateLayout),
		}
		for _, col := range columns {
			row = append(row, perResponse[i][col])
		}
		rows = append(rows, row)
	}
	return header, rows
}

// Workbook builds the xlsx file for the given format. The caller closes it.
func Workbook(format Format, responses []model.SurveyResponse, loc *time.Location) (*excelize.File, error) {
	var (
		sheet  string
		header []string
		rows   [][]string
	)
	switch format {
	case FormatLong:
		sheet, header, rows = LongSheet, LongHeader, LongRows(responses, loc)
	case FormatWide:
		sheet = WideSheet
		header, rows = WideRows(responses, loc)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRows(f, sheet, header, rows); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]string) error {
	all := append([][]string{header}, rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 22)
}

// Write renders the workbook straight to w.
func Write(w io.Writer, format Format, responses []model.SurveyResponse, loc *time.Location) error {
	f, err := Workbook(format, responses, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Filename is the suggested download name, e.g. survei-long-20260301-1504.xlsx.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("survei-%s-%s.xlsx", format, now.Format("20060102-1504"))
}
