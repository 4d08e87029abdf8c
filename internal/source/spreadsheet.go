package source

import (
	"context"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/angelcm/ads-insights-go/internal/errs"
	"github.com/angelcm/ads-insights-go/internal/models"
)

// SpreadsheetInput reads an uploaded workbook (xlsx or xlsm). The first
// sheet is used unless Sheet names another one. Row one is headers.
type SpreadsheetInput struct {
	R     io.Reader
	Sheet string
}

func (s SpreadsheetInput) Load(ctx context.Context) (models.Table, error) {
	f, err := excelize.OpenReader(s.R)
	if err != nil {
		return models.Table{}, errs.Wrap(errs.KindFileRead, err, "cannot open workbook")
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return models.Table{}, errs.New(errs.KindFileRead, "workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return models.Table{}, errs.Wrap(errs.KindFileRead, err, "cannot read sheet %q", sheet)
	}
	if len(rows) == 0 {
		return models.Table{}, errs.New(errs.KindFileRead, "sheet %q is empty", sheet)
	}

	t := models.Table{Headers: rows[0]}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
