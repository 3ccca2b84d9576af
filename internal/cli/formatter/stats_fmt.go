package formatter

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mwoodfin/copydesk/internal/domain"
)

// FormatBreakdown renders the per-status item counts in pipeline order.
func FormatBreakdown(breakdown map[domain.ItemStatus]int) string {
	rows := make([][]string, 0, len(domain.AllItemStatuses))
	total := 0
	for _, status := range domain.AllItemStatuses {
		count := breakdown[status]
		total += count
		cell := strconv.Itoa(count)
		if count == 0 {
			cell = Dim("0")
		}
		rows = append(rows, []string{StatusBadge(status), cell})
	}
	rows = append(rows, []string{StyleBold.Render("total"), StyleBold.Render(strconv.Itoa(total))})
	return RenderTable([]string{"STATUS", "ITEMS"}, rows)
}

// FormatCycleTimes renders average time spent per status.
func FormatCycleTimes(cycles map[domain.ItemStatus]time.Duration) string {
	if len(cycles) == 0 {
		return Dim("No completed stays yet.")
	}
	rows := make([][]string, 0, len(cycles))
	for _, status := range domain.AllItemStatuses {
		d, ok := cycles[status]
		if !ok {
			continue
		}
		rows = append(rows, []string{StatusBadge(status), fmt.Sprintf("%.1fh", d.Hours())})
	}
	return RenderTable([]string{"STATUS", "AVG TIME"}, rows)
}
