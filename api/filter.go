package api

import (
	"time"

	"cashbook/service"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// dateRange is the resolved transaction filter window. Nil ends are open.
type dateRange struct {
	From *time.Time
	To   *time.Time
}

// resolveDateFilter combines the named period with explicit bounds the way
// the filter form does: the period (default this_month) supplies defaults,
// explicit date_from/date_to override them. Unrecognized periods ("custom")
// imply no bounds of their own.
func resolveDateFilter(c *gin.Context) dateRange {
	period := c.DefaultQuery("period", service.PeriodThisMonth)
	start, end := service.ResolvePeriod(period, time.Now())

	r := dateRange{From: start, To: end}

	if s := c.Query("date_from"); s != "" {
		if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
			r.From = &t
		}
	}
	if s := c.Query("date_to"); s != "" {
		if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
			r.To = &t
		}
	}

	return r
}
