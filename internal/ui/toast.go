package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
	"github.com/sangnt1552314/ytbeat/internal/session"
)

const toastTimeout = 4 * time.Second

// Toast shows the latest notification for a few seconds.
type Toast struct {
	*tview.TextView
	app *tview.Application

	mu  sync.Mutex
	seq int
}

func newToast(app *tview.Application) *Toast {
	view := tview.NewTextView().SetDynamicColors(true)
	view.SetBorder(true).SetTitle("Status").SetTitleAlign(tview.AlignLeft)
	return &Toast{TextView: view, app: app}
}

func toastText(n session.Notification) string {
	color := "green"
	if n.Destructive {
		color = "red"
	}
	if n.Description == "" {
		return fmt.Sprintf("[%s::b]%s[-::-]", color, tview.Escape(n.Title))
	}
	return fmt.Sprintf("[%s::b]%s[-::-] %s", color, tview.Escape(n.Title), tview.Escape(n.Description))
}

func (t *Toast) Notify(n session.Notification) {
	t.mu.Lock()
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	text := toastText(n)
	t.app.QueueUpdateDraw(func() { t.SetText(text) })

	time.AfterFunc(toastTimeout, func() {
		t.mu.Lock()
		stale := seq != t.seq
		t.mu.Unlock()
		if !stale {
			t.app.QueueUpdateDraw(func() { t.SetText("") })
		}
	})
}
