package tablesplit

import (
	"github.com/benjaminschreck/go-tablesplit/pkg/tablesplit/xml"
)

// PostProcess strips merge markers from RepeatTable results using default settings
func PostProcess(results []SplitResult) ([]SplitResult, error) {
	return NewSplitter(nil).PostProcess(results)
}

// PostProcess removes w:vMerge and w:gridSpan from every cell of results typed
// RepeatTable and re-serializes them. A two-row template no longer contains the
// rows its merge markers referred to. Other results are returned unchanged.
func (s *Splitter) PostProcess(results []SplitResult) ([]SplitResult, error) {
	out := make([]SplitResult, len(results))
	copy(out, results)

	for i := range out {
		if out[i].TableType != RegionRepeatTable {
			continue
		}

		table, err := resultTable(out[i])
		if err != nil {
			return nil, err
		}
		removed := 0
		for r := range table.Rows {
			for c := range table.Rows[r].Cells {
				removed += table.Rows[r].Cells[c].StripMergeMarkers()
			}
		}

		result, err := s.newResult(table, RegionMeta{Name: out[i].Region, Type: out[i].TableType})
		if err != nil {
			return nil, err
		}
		out[i] = result
		s.logger().WithField("region", out[i].Region).Debug("removed %d merge markers", removed)
	}

	return out, nil
}

// resultTable returns a private copy of the result's table, parsing TableXML
// when the typed table is not attached
func resultTable(result SplitResult) (*xml.Table, error) {
	if result.Table != nil {
		return result.Table.Clone(), nil
	}
	table, err := xml.ParseTable([]byte(result.TableXML))
	if err != nil {
		return nil, WithContext(err, "parse sub-table", map[string]interface{}{"region": result.Region})
	}
	if table == nil {
		return nil, WithContext(ErrNoTable, "parse sub-table", map[string]interface{}{"region": result.Region})
	}
	return table, nil
}
