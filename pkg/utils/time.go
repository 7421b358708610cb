package utils

import "time"

// DateStampLayout is the mm/dd/yyyy layout used to stamp note content
const DateStampLayout = "01/02/2006"

// DateStamp formats t as mm/dd/yyyy in the given location
func DateStamp(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateStampLayout)
}
