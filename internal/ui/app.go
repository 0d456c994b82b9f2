// Package ui is the terminal front end: sidebar, search bar, result list,
// library and the player bar.
package ui

import (
	"context"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sangnt1552314/ytbeat/internal/models"
	"github.com/sangnt1552314/ytbeat/internal/session"
)

const playerBarHeight = 5

// App owns the tview application and forwards user input to the session.
type App struct {
	app     *tview.Application
	toast   *Toast
	session *session.Session
	ctx     context.Context
	logger  *slog.Logger

	root      *tview.Flex
	sidebar   *tview.List
	searchBox *tview.InputField
	pages     *tview.Pages
	results   *trackTable
	library   *trackTable
	popular   *tview.List
	playerBar *PlayerBar

	lastSection session.Section
	lastLiked   bool
}

// NewApp creates the application shell. Its Notifier must be handed to the
// session before Attach.
func NewApp() *App {
	app := tview.NewApplication()
	return &App{
		app:    app,
		toast:  newToast(app),
		logger: slog.Default().With(slog.String("component", "ui")),
	}
}

func (a *App) Notifier() session.Notifier {
	return a.toast
}

// Attach builds the layout around sess. ctx bounds every request started
// from the UI.
func (a *App) Attach(ctx context.Context, sess *session.Session) {
	a.ctx = ctx
	a.session = sess

	a.searchBox = tview.NewInputField()
	a.searchBox.SetBorder(true)
	a.searchBox.SetTitle("Search")
	a.searchBox.SetTitleAlign(tview.AlignLeft)
	a.searchBox.SetPlaceholder("What do you want to listen to?")
	a.searchBox.SetFieldBackgroundColor(tcell.ColorNone)
	a.searchBox.SetFieldTextColor(tcell.ColorWhite)
	a.searchBox.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.search(a.searchBox.GetText())
		}
	})

	a.sidebar = tview.NewList().ShowSecondaryText(false)
	a.sidebar.AddItem("Home", "", 0, func() { a.session.SetSection(session.SectionHome) })
	a.sidebar.AddItem("Search", "", 0, func() {
		a.session.SetSection(session.SectionSearch)
		a.app.SetFocus(a.searchBox)
	})
	a.sidebar.AddItem("Your Library", "", 0, func() { a.session.SetSection(session.SectionLibrary) })
	a.sidebar.AddItem("Exit", "", 0, a.Stop)
	a.sidebar.SetCurrentItem(1)
	a.sidebar.SetBorder(true).SetTitle("Menu").SetTitleAlign(tview.AlignLeft)

	onSelect := func(t models.Track) {
		if pauseOnSelect(a.session.Snapshot(), t) {
			a.async(func(context.Context) error { return a.session.Pause() })
			return
		}
		a.async(func(ctx context.Context) error { return a.session.PlayTrack(ctx, t) })
	}
	a.results = newTrackTable(onSelect)
	a.results.SetBorder(true).SetTitle("Search Results").SetTitleAlign(tview.AlignLeft)
	a.library = newTrackTable(onSelect)
	a.library.SetBorder(true).SetTitle("Your Library").SetTitleAlign(tview.AlignLeft)

	a.popular = tview.NewList().ShowSecondaryText(false)
	for _, term := range session.PopularSearches {
		a.popular.AddItem("✨ "+term, "", 0, func() {
			a.searchBox.SetText(term)
			a.search(term)
		})
	}
	a.popular.SetBorder(true).SetTitle("Start searching for music · Popular searches").SetTitleAlign(tview.AlignLeft)

	home := tview.NewTextView().SetTextAlign(tview.AlignCenter).
		SetText("\nWelcome to ytbeat\n\nStart exploring music by searching above")
	home.SetBorder(true)

	loading := tview.NewTextView().SetTextAlign(tview.AlignCenter).SetText("\nSearching for music...")
	loading.SetBorder(true)

	a.pages = tview.NewPages().
		AddPage(pageHome, home, true, false).
		AddPage(pageLoading, loading, true, false).
		AddPage(pagePopular, a.popular, true, true).
		AddPage(pageResults, a.results, true, false).
		AddPage(pageLibrary, a.library, true, false)

	a.playerBar = newPlayerBar(
		func() { a.async(a.session.Previous) },
		func() { a.async(func(context.Context) error { return a.session.PlayPause() }) },
		func() { a.async(a.session.Next) },
	)

	header := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.searchBox, 0, 3, true).
		AddItem(a.toast, 0, 2, false)

	body := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.sidebar, 0, 1, false).
		AddItem(a.pages, 0, 5, false)

	a.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 3, 0, true).
		AddItem(body, 0, 1, false).
		AddItem(a.playerBar, 0, 0, false)
	a.root.SetFullScreen(true)

	a.app.SetInputCapture(a.handleKey)

	a.lastSection = sess.Snapshot().Section
	sess.Subscribe(func(s session.Snapshot) {
		a.app.QueueUpdateDraw(func() { a.render(s) })
	})
	a.render(sess.Snapshot())
}

// async runs fn off the UI goroutine; errors were already reported by the
// session.
func (a *App) async(fn func(ctx context.Context) error) {
	go func() {
		if err := fn(a.ctx); err != nil {
			a.logger.Debug("action failed", slog.Any("error", err))
		}
	}()
}

func (a *App) search(query string) {
	a.session.SetQuery(query)
	a.async(a.session.Search)
	a.app.SetFocus(a.pages)
}

func (a *App) render(s session.Snapshot) {
	a.results.render(s.Tracks, s)
	a.library.render(a.library.shown, s)

	page := pageFor(s)
	if name, _ := a.pages.GetFrontPage(); name != page {
		a.pages.SwitchToPage(page)
	}

	if s.Section == session.SectionLibrary && (a.lastSection != session.SectionLibrary || a.lastLiked != s.Liked) {
		a.refreshLibrary()
	}
	a.lastSection = s.Section
	a.lastLiked = s.Liked

	height := 0
	if s.Current != nil {
		height = playerBarHeight
	}
	a.root.ResizeItem(a.playerBar, height, 0)
	a.playerBar.render(s)
}

func (a *App) refreshLibrary() {
	go func() {
		tracks, err := a.session.LibraryTracks(a.ctx)
		if err != nil {
			a.logger.Warn("load library failed", slog.Any("error", err))
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.library.render(tracks, a.session.Snapshot())
		})
	}()
}

func (a *App) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	typing := a.app.GetFocus() == a.searchBox
	switch keyAction(ev, typing) {
	case actionQuit:
		a.Stop()
	case actionPlayPause:
		a.async(func(context.Context) error { return a.session.PlayPause() })
	case actionNext:
		a.async(a.session.Next)
	case actionPrevious:
		a.async(a.session.Previous)
	case actionSeekBack:
		a.async(func(context.Context) error { return a.session.SeekBy(-seekStep) })
	case actionSeekForward:
		a.async(func(context.Context) error { return a.session.SeekBy(seekStep) })
	case actionVolumeUp:
		a.async(func(context.Context) error { return a.session.SetVolume(a.session.Snapshot().Volume + volumeStep) })
	case actionVolumeDown:
		a.async(func(context.Context) error { return a.session.SetVolume(a.session.Snapshot().Volume - volumeStep) })
	case actionMute:
		a.async(func(context.Context) error { return a.session.ToggleMute() })
	case actionLike:
		a.async(a.session.ToggleLike)
	case actionFocusSearch:
		a.app.SetFocus(a.searchBox)
	case actionSwitchFocus:
		a.switchFocus()
	default:
		return ev
	}
	return nil
}

func (a *App) switchFocus() {
	switch a.app.GetFocus() {
	case a.searchBox:
		a.app.SetFocus(a.sidebar)
	case a.sidebar:
		a.app.SetFocus(a.pages)
	default:
		a.app.SetFocus(a.searchBox)
	}
}

func (a *App) Run() error {
	return a.app.SetRoot(a.root, true).EnableMouse(true).Run()
}

func (a *App) Stop() {
	a.app.Stop()
}
