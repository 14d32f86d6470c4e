package pipeline

import (
	"fmt"
	"time"
)

// progressEvery throttles progress reporting to every Nth written frame.
const progressEvery = 3

// writeInOrder receives unordered synthesis results and delivers frames to
// the transport strictly by index. Out-of-order arrivals park in a pending
// map until the next expected index shows up; skipped (cancelled) frames
// advance the cursor without being written.
//
// Returns nil on a cancelled run; the caller reads the cancel flag.
func (g *Generator) writeInOrder(total int, label string, results <-chan frameResult, transport Transport, report func(float64, string)) error {
	pending := make(map[int][]byte)
	next := 0
	timeouts := 0
	start := time.Now()

	for next < total {
		if g.cancel.Load() {
			return nil
		}

		select {
		case res, ok := <-results:
			if !ok {
				return fmt.Errorf("render workers exited early at frame %d/%d", next, total)
			}
			timeouts = 0

			if res.err != nil {
				return res.err
			}
			if res.frame == nil {
				// Skipped due to cancellation; keep the cursor moving so
				// the loop terminates.
				if res.idx+1 > next {
					next = res.idx + 1
				}
				continue
			}

			pending[res.idx] = res.frame

			for {
				frame, found := pending[next]
				if !found {
					break
				}
				delete(pending, next)

				if err := transport.WriteFrame(frame); err != nil {
					// Encoder went away mid-stream; fold into the
					// cancellation path so the failure is reported once.
					g.logger.Warn("Encoder pipe closed early", "frame", next, "error", err)
					g.cancel.Store(true)
					return nil
				}
				next++

				if g.metrics != nil {
					g.metrics.FramesWritten.Inc()
				}

				if next%progressEvery == 0 {
					pct := float64(next) / float64(total)
					elapsed := time.Since(start).Seconds()
					fpsActual := 0.0
					if elapsed > 0 {
						fpsActual = float64(next) / elapsed
					}
					eta := 0.0
					if fpsActual > 0 {
						eta = float64(total-next) / fpsActual
					}
					if g.metrics != nil {
						g.metrics.RenderFPS.Set(fpsActual)
					}
					report(pct, fmt.Sprintf("[%s] Frame %d/%d (%d%%) • %.1f fps • ETA %ds",
						label, next, total, int(pct*100), fpsActual, int(eta)))
				}
			}

		case <-time.After(g.resultTimeout):
			// A worker producing nothing for this long is dead, not slow.
			timeouts++
			if timeouts >= g.maxTimeouts {
				return fmt.Errorf("render pipeline stalled: no frames produced for %s", time.Duration(timeouts)*g.resultTimeout)
			}
			g.logger.Warn("Slow frame synthesis", "next_frame", next, "consecutive_timeouts", timeouts)
		}
	}

	return nil
}
