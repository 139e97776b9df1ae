package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SalaryPrep/internal/domain"
	"SalaryPrep/internal/ports"
)

// HTMLTableParser reads the first table of an HTML page. The header row is
// taken from <th> cells, or from the first row when the table has none.
type HTMLTableParser struct {
	// Selector picks the table; empty means "table".
	Selector string
}

var _ ports.RecordParser = HTMLTableParser{}

// Format identifies the parser inside the registry.
func (HTMLTableParser) Format() string {
	return "html"
}

// Parse extracts records from the table rows.
func (p HTMLTableParser) Parse(r io.Reader) ([]domain.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Row: 0, Err: fmt.Errorf("parse document: %w", err)}
	}

	selector := p.Selector
	if selector == "" {
		selector = "table"
	}
	table := doc.Find(selector).First()
	if table.Length() == 0 {
		return nil, &ParseError{Row: 0, Err: fmt.Errorf("no element matches %q", selector)}
	}

	rows := table.Find("tr")
	var (
		header []string
		body   []*goquery.Selection
	)
	rows.Each(func(_ int, tr *goquery.Selection) {
		if header == nil && tr.Find("th").Length() > 0 {
			header = cellTexts(tr.Find("th"))
			return
		}
		body = append(body, tr)
	})
	if header == nil {
		if len(body) == 0 {
			return nil, &ParseError{Row: 0, Err: fmt.Errorf("empty table")}
		}
		header = cellTexts(body[0].Find("td"))
		body = body[1:]
	}

	cols, err := newColumnIndex(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(body))
	for i, tr := range body {
		fields := cellTexts(tr.Find("td"))
		if len(fields) == 0 {
			continue
		}
		rec, err := cols.record(i+1, fields)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func cellTexts(cells *goquery.Selection) []string {
	return cells.Map(func(_ int, cell *goquery.Selection) string {
		return strings.TrimSpace(cell.Text())
	})
}
