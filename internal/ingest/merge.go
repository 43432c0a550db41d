package ingest

import "sort"

// MergeMonthly outer-joins the two monthly feeds on (Citi Email,
// Month). Column names the sheets share (other than the join keys)
// come out suffixed _cg/_citi; sheet-specific columns keep their
// names. Rows are ordered by email then month and de-duplicated with
// the last row winning.
func MergeMonthly(cg, citi []Row) []Row {
	shared := sharedColumns(cg, citi)

	type joinKey struct{ email, month string }
	keyOf := func(row Row) joinKey {
		return joinKey{Choose(row, ColCitiEmail), Choose(row, ColMonth)}
	}

	citiByKey := make(map[joinKey][]Row, len(citi))
	citiMatched := make(map[joinKey]bool, len(citi))
	for _, row := range citi {
		k := keyOf(row)
		citiByKey[k] = append(citiByKey[k], row)
	}

	var merged []Row
	for _, cgRow := range cg {
		k := keyOf(cgRow)
		matches := citiByKey[k]
		if len(matches) == 0 {
			merged = append(merged, combine(cgRow, nil, shared))
			continue
		}
		citiMatched[k] = true
		for _, citiRow := range matches {
			merged = append(merged, combine(cgRow, citiRow, shared))
		}
	}
	for _, citiRow := range citi {
		if citiMatched[keyOf(citiRow)] {
			continue
		}
		merged = append(merged, combine(nil, citiRow, shared))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := keyOf(merged[i]), keyOf(merged[j])
		if a.email != b.email {
			return a.email < b.email
		}
		return a.month < b.month
	})

	// Last row wins per (email, month).
	lastIndex := make(map[joinKey]int, len(merged))
	for i, row := range merged {
		lastIndex[keyOf(row)] = i
	}
	deduped := merged[:0]
	for i, row := range merged {
		if lastIndex[keyOf(row)] == i {
			deduped = append(deduped, row)
		}
	}
	return deduped
}

func sharedColumns(cg, citi []Row) map[string]bool {
	cgCols := columnSet(cg)
	citiCols := columnSet(citi)
	shared := make(map[string]bool)
	for col := range cgCols {
		if col == ColCitiEmail || col == ColMonth {
			continue
		}
		if citiCols[col] {
			shared[col] = true
		}
	}
	return shared
}

func columnSet(rows []Row) map[string]bool {
	cols := make(map[string]bool)
	for _, row := range rows {
		for col := range row {
			cols[col] = true
		}
	}
	return cols
}

func combine(cgRow, citiRow Row, shared map[string]bool) Row {
	out := make(Row, len(cgRow)+len(citiRow))
	copyWithSuffix(out, cgRow, shared, "_cg")
	copyWithSuffix(out, citiRow, shared, "_citi")
	return out
}

func copyWithSuffix(dst, src Row, shared map[string]bool, suffix string) {
	for col, val := range src {
		switch {
		case col == ColCitiEmail || col == ColMonth:
			dst[col] = val
		case shared[col]:
			dst[col+suffix] = val
		default:
			dst[col] = val
		}
	}
}
