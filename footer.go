package recinject

import (
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// StampYear writes now's year, in local time, into the footer's [data-year]
// placeholder. Pages without one are left alone.
func StampYear(live *goquery.Document, now time.Time) {
	live.Find("[data-year]").First().SetText(strconv.Itoa(now.Local().Year()))
}
