package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sangnt1552314/ytbeat/internal/session"
)

const progressWidth = 40

type PlayerBar struct {
	*tview.Flex

	info     *tview.Flex
	playing  *tview.TextView
	progress *tview.TextView
	volume   *tview.TextView
	prev     *tview.Button
	toggle   *tview.Button
	next     *tview.Button
}

func newButton(label string, onSelect func()) *tview.Button {
	b := tview.NewButton(label).SetSelectedFunc(onSelect)
	b.SetActivatedStyle(tcell.Style{}.Background(tcell.ColorBlack))
	b.SetStyle(tcell.Style{}.Background(tcell.ColorBlack))
	return b
}

func newPlayerBar(onPrev, onToggle, onNext func()) *PlayerBar {
	p := &PlayerBar{
		Flex:     tview.NewFlex().SetDirection(tview.FlexColumn),
		playing:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		progress: tview.NewTextView().SetTextAlign(tview.AlignCenter),
		volume:   tview.NewTextView().SetTextAlign(tview.AlignCenter),
		prev:     newButton("⏮", onPrev),
		toggle:   newButton("▶️ Play", onToggle),
		next:     newButton("⏭", onNext),
	}

	p.info = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.playing, 1, 0, false).
		AddItem(p.progress, 1, 0, false)
	p.info.SetBorder(true).SetTitle(" 0:00 / 0:00 ").SetTitleColor(tcell.ColorYellow)

	controls := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(p.prev, 0, 1, false).
		AddItem(p.toggle, 0, 2, false).
		AddItem(p.next, 0, 1, false)
	controls.SetBorder(true)

	p.volume.SetBorder(true)

	p.AddItem(p.info, 0, 5, false).
		AddItem(controls, 0, 2, false).
		AddItem(p.volume, 0, 1, false)
	return p
}

func (p *PlayerBar) render(s session.Snapshot) {
	color := tcell.ColorYellow
	label := "▶️ Play"
	if s.Playing {
		color = tcell.ColorGreen
		label = "⏸️ Pause"
	}

	p.playing.SetText(nowPlayingText(s)).SetTextColor(color)
	p.progress.SetText(progressBar(s.Progress, progressWidth))
	p.volume.SetText(volumeLabel(s))
	p.toggle.SetLabel(label)

	p.info.SetTitle(clockLabel(s)).SetTitleColor(color)
}
