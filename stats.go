package glscene

import "time"

// frameStats reports the average frame time over every fixed number of frames.
type frameStats struct {
	every     int
	started   bool
	lastT     uint64
	lastStamp time.Duration
}

// observe records that frame t was rendered at timestamp. It returns the
// average frame time and frame rate when a report interval completes.
func (st *frameStats) observe(t uint64, timestamp time.Duration) (avg time.Duration, fps float64, ok bool) {
	if st.every <= 0 {
		return 0, 0, false
	}
	if !st.started {
		st.started = true
		st.lastT = t
		st.lastStamp = timestamp
		return 0, 0, false
	}
	if t-st.lastT != uint64(st.every) {
		return 0, 0, false
	}
	elapsed := timestamp - st.lastStamp
	avg = elapsed / time.Duration(st.every)
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}
	st.lastT = t
	st.lastStamp = timestamp
	return avg, fps, true
}
