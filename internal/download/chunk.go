package download

import (
	"fmt"
	"time"

	"futures-data/internal/model"
)

// DateRange is an inclusive pair of calendar dates (UTC midnight), Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) String() string {
	return r.Start.Format(model.DateLayout) + "~" + r.End.Format(model.DateLayout)
}

// SplitRange splits [start, end] into chunks of at most chunkYears calendar years.
// The first chunk runs from start to Dec 31 of start.Year()+chunkYears-1; every later
// chunk starts on Jan 1 of the following year. The last chunk is capped at end.
func SplitRange(start, end time.Time, chunkYears int) ([]DateRange, error) {
	start, end = model.Day(start), model.Day(end)
	if chunkYears < 1 {
		return nil, fmt.Errorf("split range: chunk years %d < 1", chunkYears)
	}
	if start.After(end) {
		return nil, fmt.Errorf("split range: start %s after end %s",
			start.Format(model.DateLayout), end.Format(model.DateLayout))
	}

	var chunks []DateRange
	for cur := start; !cur.After(end); {
		lastYear := cur.Year() + chunkYears - 1
		chunkEnd := model.Date(lastYear, time.December, 31)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, DateRange{Start: cur, End: chunkEnd})
		cur = model.Date(lastYear+1, time.January, 1)
	}
	return chunks, nil
}
