package regtab

import (
	"encoding/csv"
	"io"
)

// writeCSV flattens the layout into records: header lines, two records per
// variable, then the summary rows.
func writeCSV(w io.Writer, l *Layout, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	records := [][]string{append([]string{LabelVariable}, l.Numbers...)}
	for _, h := range l.Headers {
		records = append(records, append([]string{""}, h...))
	}
	for _, r := range l.Rows {
		coefs := []string{r.Label}
		ses := []string{""}
		for _, c := range r.Cells {
			coefs = append(coefs, c.CoefLine())
			ses = append(ses, c.StdErrLine())
		}
		records = append(records, coefs, ses)
	}
	for _, s := range l.Stats {
		records = append(records, append([]string{s.Label}, s.Values...))
	}

	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
