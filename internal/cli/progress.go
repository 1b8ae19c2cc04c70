package cli

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	barWidth    = 30
	redrawEvery = 100 * time.Millisecond
)

var styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

// downloadBar draws a single, redrawn progress line per distfile download:
//
//	⠹ git2-0.18.0.crate [###########>------------------] 1.2 MB / 3.4 MB
//
// Redraws are throttled; the line is cleared when the download completes.
type downloadBar struct {
	w   io.Writer
	now func() time.Time

	mu     sync.Mutex
	frame  int
	last   time.Time
	drawn  int
	frames []string
}

func newDownloadBar(w io.Writer) *downloadBar {
	return &downloadBar{
		w:      w,
		now:    time.Now,
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

func (b *downloadBar) OnDownloadStart(_ context.Context, url string, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draw(url, 0, total)
}

func (b *downloadBar) OnDownloadProgress(_ context.Context, url string, read, total int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if read < total && b.now().Sub(b.last) < redrawEvery {
		return
	}
	b.draw(url, read, total)
}

func (b *downloadBar) OnDownloadComplete(context.Context, string, int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clear()
}

// draw must be called with mu held.
func (b *downloadBar) draw(url string, read, total int64) {
	frame := b.frames[b.frame%len(b.frames)]
	b.frame++
	b.last = b.now()

	plain := fmt.Sprintf("%s %s %s %s / %s", frame, path.Base(url), bar(read, total), formatBytes(read), formatBytes(total))
	styled := fmt.Sprintf("%s %s %s %s",
		styleIconSpinner.Render(frame),
		StyleDim.Render(path.Base(url)),
		bar(read, total),
		StyleNumber.Render(formatBytes(read)+" / "+formatBytes(total)))

	pad := ""
	if n := len([]rune(plain)); n < b.drawn {
		pad = strings.Repeat(" ", b.drawn-n)
	} else {
		b.drawn = n
	}
	fmt.Fprintf(b.w, "\r%s%s", styled, pad)
}

// clear must be called with mu held.
func (b *downloadBar) clear() {
	if b.drawn == 0 {
		return
	}
	fmt.Fprintf(b.w, "\r%s\r", strings.Repeat(" ", b.drawn))
	b.drawn = 0
}

// bar renders read/total as "[###>---]" with barWidth cells.
func bar(read, total int64) string {
	filled := barWidth
	if total > 0 && read < total {
		filled = int(read * barWidth / total)
	}
	head := ""
	if filled < barWidth {
		head = ">"
	}
	rest := barWidth - filled - len(head)
	return "[" + strings.Repeat("#", filled) + head + strings.Repeat("-", rest) + "]"
}

func formatBytes(n int64) string {
	const unit = 1000
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "kMGT"[exp])
}
