package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
)

// ToJSON serializes an extraction result to pretty JSON.
func ToJSON(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV exports the concatenated table rows as CSV. The header carries a
// leading "page" column followed by the result's column keys; one record
// per table row, in page order. This is the boundary format handed to the
// external spreadsheet serializer.
func ToCSV(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"page"}, res.Columns...)
	_ = w.Write(header)

	for _, pr := range res.Pages {
		for _, row := range pr.Rows {
			record := make([]string, 0, len(header))
			record = append(record, strconv.Itoa(pr.PageNumber))
			for _, key := range res.Columns {
				record = append(record, row[key])
			}
			_ = w.Write(record)
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
