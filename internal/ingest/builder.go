package ingest

import (
	"strconv"
	"strings"
	"time"

	"matterdesk/api/internal/matter"
)

// CellKind classifies a raw spreadsheet cell.
type CellKind int

const (
	CellBlank CellKind = iota
	CellText
	CellNumber
	CellDate
)

// Cell is one raw cell as handed over by the tabular reader. Date cells
// carry an ISO date in Date; number cells carry the parsed value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   string
}

// String renders the cell the way it lands in a canonical field: blanks are
// empty, dates are ISO, integral numbers drop their fraction.
func (c Cell) String() string {
	switch c.Kind {
	case CellBlank:
		return ""
	case CellDate:
		return c.Date
	case CellNumber:
		if c.Number == float64(int64(c.Number)) {
			return strconv.FormatInt(int64(c.Number), 10)
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return strings.TrimSpace(c.Text)
	}
}

// BuildRecords turns source rows into candidate matters using a header
// mapping from ReconcileHeaders. Cells of unmapped columns are ignored.
// Rows with neither a Ref nor a Counterparty are dropped as noise (blank
// lines, subtotal rows). Each kept record gets a fresh ID from newID.
//
// Row order is preserved, and within a row columns are visited in sheet
// order, so when two source columns map to the same field the rightmost
// one wins.
func BuildRecords(columns []string, rows [][]Cell, mapping map[string]string, newID func() string) []matter.Matter {
	var records []matter.Matter

	for _, row := range rows {
		fields := make(map[string]string, len(matter.Fields))
		for _, f := range matter.Fields {
			fields[f] = ""
		}

		for i, col := range columns {
			field, ok := mapping[col]
			if !ok || i >= len(row) {
				continue
			}
			fields[field] = row[i].String()
		}

		fields[matter.FieldDateReceived] = ParseDate(fields[matter.FieldDateReceived])
		fields[matter.FieldDateClosed] = ParseDate(fields[matter.FieldDateClosed])

		var rec matter.Matter
		for _, f := range matter.Fields {
			if matter.IsIntField(f) {
				continue
			}
			rec.SetString(f, fields[f])
		}
		rec.DaysWithLegal = ParseIntDefault(fields[matter.FieldDaysWithLegal], 0)
		rec.TotalCycleTime = ParseIntDefault(fields[matter.FieldTotalCycleTime], 0)

		if rec.DateClosed == "" && rec.DateReceived != "" && rec.TotalCycleTime > 0 {
			if received, err := time.Parse(isoDate, rec.DateReceived); err == nil {
				rec.DateClosed = received.AddDate(0, 0, rec.TotalCycleTime).Format(isoDate)
			}
		}

		if rec.Owner == "" {
			rec.Owner = rec.Legal
		}

		rec.ID = newID()

		if rec.Ref != "" || rec.Counterparty != "" {
			records = append(records, rec)
		}
	}

	return records
}
