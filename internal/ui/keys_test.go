package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestKeyAction(t *testing.T) {
	tests := []struct {
		name   string
		ev     *tcell.EventKey
		typing bool
		want   action
	}{
		{"space toggles", runeKey(' '), false, actionPlayPause},
		{"next", runeKey('n'), false, actionNext},
		{"previous", runeKey('p'), false, actionPrevious},
		{"quit", runeKey('q'), false, actionQuit},
		{"volume up", runeKey('+'), false, actionVolumeUp},
		{"volume up alias", runeKey('='), false, actionVolumeUp},
		{"volume down", runeKey('-'), false, actionVolumeDown},
		{"mute", runeKey('m'), false, actionMute},
		{"like", runeKey('l'), false, actionLike},
		{"search", runeKey('/'), false, actionFocusSearch},
		{"seek back", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), false, actionSeekBack},
		{"seek forward", tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), false, actionSeekForward},
		{"unbound rune", runeKey('z'), false, actionNone},
		{"enter passes through", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false, actionNone},
		{"typing q", runeKey('q'), true, actionNone},
		{"typing space", runeKey(' '), true, actionNone},
		{"typing arrows", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), true, actionNone},
		{"ctrl+c while typing", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true, actionQuit},
		{"escape leaves search", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true, actionSwitchFocus},
		{"escape elsewhere", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), false, actionNone},
		{"tab", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), false, actionSwitchFocus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyAction(tt.ev, tt.typing))
		})
	}
}
