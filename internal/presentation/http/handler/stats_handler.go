package handler

import (
	"encoding/csv"
	"iter"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketday/fleamarket-api/internal/application/service"
)

// StatsHandler serves the replayed inventory statistics as streaming CSV
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Sales streams the sales-side statistics. The advertised column is blanked;
// registrations have their own view.
func (h *StatsHandler) Sales(c *gin.Context) {
	h.stream(c, h.statsService.SalesData(c.Request.Context()), true)
}

// Registrations streams the registration statistics, advertised counts only
func (h *StatsHandler) Registrations(c *gin.Context) {
	h.stream(c, h.statsService.RegistrationData(c.Request.Context()), false)
}

// stream writes bucketed rows as CSV without buffering the whole series.
// Rows arrive ordered by bucket time; an error mid-stream truncates the
// output since the header has already been sent.
func (h *StatsHandler) stream(c *gin.Context, rows iter.Seq2[service.StatsRow, error], salesView bool) {
	c.Header("Content-Type", "text/csv")

	w := csv.NewWriter(c.Writer)
	if err := w.Write([]string{"time", "advertised", "brought", "unsold", "money", "compensated"}); err != nil {
		return
	}

	for row, err := range rows {
		if err != nil {
			_ = c.Error(err)
			return
		}
		record := []string{
			row.Time.UTC().Format("2006-01-02T15:04:05Z"),
			strconv.FormatInt(row.Advertised, 10),
			strconv.FormatInt(row.Brought, 10),
			strconv.FormatInt(row.Unsold, 10),
			strconv.FormatInt(row.Money, 10),
			strconv.FormatInt(row.Compensated, 10),
		}
		if salesView {
			record[1] = ""
		} else {
			record[2], record[3], record[4], record[5] = "", "", "", ""
		}
		if err := w.Write(record); err != nil {
			return
		}
	}
	w.Flush()
}
