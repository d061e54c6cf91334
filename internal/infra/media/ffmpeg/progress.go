package ffmpeg

import (
	"strconv"
	"strings"
)

// encodeFloor/encodeCeil bound the progress range reported while the
// encoder runs; the terminal 100 is set by the job lifecycle, not here.
const (
	encodeFloor = 75
	encodeCeil  = 99
)

// progressTracker maps ffmpeg -progress key=value output onto the
// encoding percent range. ffmpeg emits out_time_us (microseconds of
// output written so far) once per progress interval.
type progressTracker struct {
	totalSeconds float64
	last         int
}

func newProgressTracker(totalSeconds float64) *progressTracker {
	return &progressTracker{totalSeconds: totalSeconds, last: encodeFloor}
}

// feed consumes one line. It returns the mapped percent and true only
// when the percent advanced, keeping progress monotonic.
func (t *progressTracker) feed(line string) (int, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || t.totalSeconds <= 0 {
			return 0, false
		}
		frac := float64(us) / 1e6 / t.totalSeconds
		if frac > 1 {
			frac = 1
		}
		pct := encodeFloor + int(frac*float64(encodeCeil-encodeFloor))
		if pct > t.last {
			t.last = pct
			return pct, true
		}
	case "progress":
		if value == "end" && encodeCeil > t.last {
			t.last = encodeCeil
			return encodeCeil, true
		}
	}
	return 0, false
}
