package download

import "time"

// Progress is a transient snapshot of a transfer. It is recomputed on each
// chunk and handed to the progress callback by value; nothing persists it.
type Progress struct {
	Received int64         // cumulative bytes written to disk
	Total    int64         // declared content length; 0 when unknown
	Speed    float64       // bytes/second, averaged since transfer start
	ETA      time.Duration // remaining/Speed; 0 when Total or Speed unknown
	Elapsed  time.Duration
}

// Percent returns floor(received*100/total), clamped to [0,100].
// A transfer with unknown total reports 0.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	pct := int(p.Received * 100 / p.Total)
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func snapshot(received, total int64, start, now time.Time) Progress {
	p := Progress{Received: received, Total: total, Elapsed: now.Sub(start)}
	if secs := p.Elapsed.Seconds(); secs > 0 {
		// Cumulative average from transfer start. Optimistic early in long
		// transfers compared to a sliding window; kept as a known
		// approximation to avoid jittery readings.
		p.Speed = float64(received) / secs
	}
	if total > 0 && p.Speed > 0 && received < total {
		p.ETA = time.Duration(float64(total-received) / p.Speed * float64(time.Second))
	}
	return p
}
