package workbook

// isDateNumFmt reports whether a cell number format renders serials as dates.
// Built-in ids follow ECMA-376 §18.8.30; custom codes are scanned for date tokens.
func isDateNumFmt(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return scanDateTokens(*custom)
	}
	return isBuiltInDateID(numFmt)
}

func isBuiltInDateID(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// scanDateTokens looks for d, m, y, h or s outside quoted literals and
// bracketed sections ([Red], [$-416], ...).
func scanDateTokens(format string) bool {
	inQuote, inBracket, escaped := false, false, false
	for _, ch := range format {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == 'd' || ch == 'D' ||
			ch == 'm' || ch == 'M' ||
			ch == 'y' || ch == 'Y' ||
			ch == 'h' || ch == 'H' ||
			ch == 's' || ch == 'S':
			return true
		}
	}
	return false
}
