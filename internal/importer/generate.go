package importer

import (
	"bytes"
	"encoding/csv"

	"github.com/alexanderramin/loadplan/internal/domain"
)

// PeriodCSVHeader is the header line ParsePeriods expects (and ignores).
var PeriodCSVHeader = []string{"name", "startDate", "endDate"}

// GeneratePeriodCSV renders periods in the format ParsePeriods reads back.
func GeneratePeriodCSV(periods []domain.Period) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(PeriodCSVHeader); err != nil {
		return "", err
	}
	for _, p := range periods {
		if err := w.Write([]string{p.Name, p.StartDate.String(), p.EndDate.String()}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
