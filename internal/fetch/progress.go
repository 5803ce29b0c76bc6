package fetch

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

func newProgress(out io.Writer) *mpb.Progress {
	if out == nil {
		out = io.Discard
	}
	return mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))
}

// addBar adds a download bar. A total of 0 means the size is unknown. The
// bar completes only through finishBar.
func addBar(p *mpb.Progress, name string, total int64) *mpb.Bar {
	if r := []rune(name); len(r) > 32 {
		name = string(r[:29]) + "..."
	}
	bar := p.New(0,
		mpb.BarStyle().Lbound("╢").Filler("█").Tip("█").Padding("░").Rbound("╟"),
		mpb.PrependDecorators(
			decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DindentRight}),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO, decor.WC{W: 4}), "done",
			),
		),
		mpb.AppendDecorators(
			decor.AverageSpeed(decor.SizeB1024(0), "% .2f"),
		),
	)
	if total > 0 {
		bar.SetTotal(total, false)
	}
	return bar
}

// finishBar marks bar complete at whatever was read.
func finishBar(bar *mpb.Bar) {
	bar.SetTotal(-1, true)
}
