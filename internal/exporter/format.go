package exporter

import (
	"strconv"
	"time"

	"bikepulse/pkg/contracts/domain"
)

// formatCell renders a typed cell for text output
func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case bool:
		return formatBool(x)
	case time.Time:
		return x.Format(domain.DateLayout)
	case nil:
		return ""
	default:
		return ""
	}
}

// formatFloat uses the shortest representation that round-trips
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatBool writes flags as 0/1, matching the source tables
func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
