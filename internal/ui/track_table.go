package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/sangnt1552314/ytbeat/internal/session"
)

type trackTable struct {
	*tview.Table
	shown []models.Track
}

func newTrackTable(onSelect func(models.Track)) *trackTable {
	t := &trackTable{Table: tview.NewTable()}
	t.SetSelectable(true, false)
	t.setHeader()
	t.SetSelectedFunc(func(row, column int) {
		if row <= 0 { // header
			return
		}
		if track, ok := t.GetCell(row, 1).GetReference().(models.Track); ok {
			onSelect(track)
		}
	})
	return t
}

func (t *trackTable) setHeader() {
	for col, title := range []string{"", "Title", "Artist", "Duration"} {
		t.SetCell(0, col, tview.NewTableCell(title).
			SetSelectable(false).
			SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold))
	}
	t.SetFixed(1, 0)
}

// rows are rebuilt only when the list changes
func (t *trackTable) render(tracks []models.Track, snap session.Snapshot) {
	if !sameTracks(t.shown, tracks) {
		t.Clear()
		t.setHeader()
		for i, track := range tracks {
			row := i + 1
			t.SetCell(row, 0, tview.NewTableCell("").SetTextColor(tcell.ColorGreen))
			t.SetCell(row, 1, tview.NewTableCell(tview.Escape(track.Title)).
				SetMaxWidth(48).
				SetExpansion(1).
				SetReference(track))
			t.SetCell(row, 2, tview.NewTableCell(tview.Escape(track.Artist)).SetMaxWidth(24))
			t.SetCell(row, 3, tview.NewTableCell(track.Duration).SetAlign(tview.AlignRight))
		}
		t.shown = append([]models.Track(nil), tracks...)
		if len(tracks) > 0 {
			t.Select(1, 0)
		}
	}

	for i, track := range t.shown {
		t.GetCell(i+1, 0).SetText(marker(snap, track))
	}
}
