package cmd

import (
	"fmt"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/rs/zerolog"
)

// rows between log lines when no total is known
const logEvery = 500_000

// barProgress renders one uiprogress bar per imported table. When the row
// count is unknown it falls back to periodic log lines.
type barProgress struct {
	log   zerolog.Logger
	p     *uiprogress.Progress
	bar   *uiprogress.Bar
	table string
	rows  int64
	start time.Time
}

func newBarProgress(log zerolog.Logger) *barProgress {
	return &barProgress{log: log}
}

func (b *barProgress) Begin(table string, total int64) {
	b.table = table
	b.rows = 0
	b.start = time.Now()
	if total <= 0 {
		return
	}

	b.p = uiprogress.New()
	b.p.Start()
	b.bar = b.p.AddBar(int(total)).AppendCompleted().PrependElapsed()
	b.bar.PrependFunc(func(bar *uiprogress.Bar) string {
		return fmt.Sprintf("%-9s %d/%d", table, bar.Current(), bar.Total)
	})
}

func (b *barProgress) Step() {
	b.rows++
	if b.bar != nil {
		b.bar.Incr()
		return
	}
	if b.rows%logEvery == 0 {
		b.log.Info().Str("table", b.table).Int64("rows", b.rows).Msg("Inserting")
	}
}

func (b *barProgress) End() {
	if b.p != nil {
		b.p.Stop()
	}
	b.p, b.bar = nil, nil
	b.log.Debug().Str("table", b.table).Int64("rows", b.rows).Dur("elapsed", time.Since(b.start)).Msg("Insert loop done")
}

// downloadProgress logs a line per 10% of a file, or per 50 MiB when the size is unknown.
func downloadProgress(log zerolog.Logger) func(file string, written, total int64) {
	var (
		current string
		next    int64
	)
	return func(file string, written, total int64) {
		step := int64(50 << 20)
		if total > 0 {
			step = max(total/10, 1)
		}
		if file != current {
			current, next = file, step
		}
		if written < next {
			return
		}
		next = (written/step + 1) * step
		ev := log.Info().Str("file", file).Int64("bytes", written)
		if total > 0 {
			ev = ev.Int64("percent", written*100/total)
		}
		ev.Msg("Downloading")
	}
}
