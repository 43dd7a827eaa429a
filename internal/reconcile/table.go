package reconcile

// TableRow maps column keys to cell text for one reconstructed record.
type TableRow map[string]string

// AssembleTable builds one TableRow per primary row. The primary column's
// joined text lands under primaryKey; cells holds, per other column key, the
// FillColumnByYMatch result aligned to the primary rows. A cell slice
// shorter than the primary row list leaves the remaining rows empty rather
// than shifting values.
func AssembleTable(primaryKey string, primaryRows []PrimaryRow, cells map[string][]string) []TableRow {
	rows := make([]TableRow, len(primaryRows))
	for i, pr := range primaryRows {
		row := TableRow{primaryKey: pr.Text}
		for key, col := range cells {
			if i < len(col) {
				row[key] = col[i]
			} else {
				row[key] = ""
			}
		}
		rows[i] = row
	}
	return rows
}
