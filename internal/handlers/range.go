package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pocketsalon/salon-manager/internal/httperr"
	"github.com/pocketsalon/salon-manager/internal/stats"
	"github.com/pocketsalon/salon-manager/internal/timezone"
)

// resolveRangeQuery reads the shared ?range= parameter. The custom range
// additionally needs ?from= and ?to= as YYYY-MM-DD. On a bad custom
// bound it writes the error response and reports false.
func resolveRangeQuery(c *gin.Context, tz string) (stats.RangeType, time.Time, time.Time, bool) {
	rt := stats.ParseRange(c.DefaultQuery("range", "all"))

	if rt == stats.RangeCustom {
		start, end, err := stats.ResolveCustom(c.Query("from"), c.Query("to"), timezone.Location(tz))
		if err != nil {
			httperr.BadRequest(c, "invalid_range", "custom range needs from and to as YYYY-MM-DD")
			return rt, time.Time{}, time.Time{}, false
		}
		return rt, start, end, true
	}

	start, end := stats.Resolve(rt, timezone.NowIn(tz))
	return rt, start, end, true
}
