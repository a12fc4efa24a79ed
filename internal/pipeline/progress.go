package pipeline

import (
	"sync/atomic"
)

type Snapshot struct {
	Stage  string
	Total  int64
	Done   int64
	Failed int64
	// Key is the unit that just completed.
	Key string
}

// ProgressFunc is called by workers as units complete, possibly from many
// goroutines at once.
type ProgressFunc func(Snapshot)

// Progress counts completed units of one stage. The counters are the only
// state workers share.
type Progress struct {
	stage  string
	total  int64
	done   atomic.Int64
	failed atomic.Int64
	notify ProgressFunc
}

func newProgress(stage string, total int, notify ProgressFunc) *Progress {
	return &Progress{stage: stage, total: int64(total), notify: notify}
}

func (p *Progress) record(key string, err error) {
	failed := p.failed.Load()
	if err != nil {
		failed = p.failed.Add(1)
	}
	done := p.done.Add(1)

	if p.notify != nil {
		p.notify(Snapshot{
			Stage:  p.stage,
			Total:  p.total,
			Done:   done,
			Failed: failed,
			Key:    key,
		})
	}
}

func (p *Progress) Snapshot() Snapshot {
	return Snapshot{
		Stage:  p.stage,
		Total:  p.total,
		Done:   p.done.Load(),
		Failed: p.failed.Load(),
	}
}
