package ui

import "github.com/gdamore/tcell/v2"

type action int

const (
	actionNone action = iota
	actionQuit
	actionPlayPause
	actionNext
	actionPrevious
	actionSeekBack
	actionSeekForward
	actionVolumeUp
	actionVolumeDown
	actionMute
	actionLike
	actionFocusSearch
	actionSwitchFocus
)

const (
	seekStep   = 5.0
	volumeStep = 5
)

// keyAction maps a key press to a global action. While typing in the search
// box only Ctrl+C, Esc and Tab are global.
func keyAction(ev *tcell.EventKey, typing bool) action {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyTab:
		return actionSwitchFocus
	case tcell.KeyEscape:
		if typing {
			return actionSwitchFocus
		}
		return actionNone
	}
	if typing {
		return actionNone
	}

	switch ev.Key() {
	case tcell.KeyLeft:
		return actionSeekBack
	case tcell.KeyRight:
		return actionSeekForward
	case tcell.KeyRune:
	default:
		return actionNone
	}

	switch ev.Rune() {
	case 'q':
		return actionQuit
	case ' ':
		return actionPlayPause
	case 'n':
		return actionNext
	case 'p':
		return actionPrevious
	case '+', '=':
		return actionVolumeUp
	case '-':
		return actionVolumeDown
	case 'm':
		return actionMute
	case 'l':
		return actionLike
	case '/':
		return actionFocusSearch
	}
	return actionNone
}
