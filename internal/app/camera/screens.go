package camera

import (
	"fmt"
	"image"

	"github.com/temoto/tapui/internal/anim"
	"github.com/temoto/tapui/internal/layout"
	"github.com/temoto/tapui/internal/widget"
)

// launcher rows, icon names in cell order
var launcherIcons = [][]string{
	{"adobe_Ai", "adobe_Dw", "adobe_Fl", "adobe_Fw", "adobe_Id", "adobe_Ps", "axialis",
		"adobe_Ai", "adobe_Dw", "adobe_Fl", "adobe_Fw", "adobe_Id", "adobe_Ps", "axialis"},
	{"chrome", "dropbox", "email", "explorer", "firefox", "flashget", "foobar",
		"chrome", "dropbox", "email", "explorer"},
	{"games", "googleEarth", "handbrake", "mediaPlayer", "notepad", "opera", "safari",
		"games", "googleEarth", "handbrake", "mediaPlayer", "notepad"},
	{"sonyericsson", "totalCommander", "uTorrent", "vlcPlayer", "webcam", "xbmc", "safari",
		"sonyericsson", "totalCommander", "uTorrent", "vlcPlayer", "webcam"},
	{"adobe_Ai", "adobe_Dw", "adobe_Fl", "adobe_Fw", "adobe_Id", "adobe_Ps", "axialis",
		"adobe_Ai", "adobe_Dw", "adobe_Fl", "adobe_Fw", "adobe_Id"},
	{"chrome", "dropbox", "email", "explorer", "firefox", "flashget", "foobar", "chrome"},
}

// LauncherGrid reproduces launcher row geometry, widths and heights in canvas pixels.
func LauncherGrid() *layout.Grid {
	const (
		spacing = 4
		normal  = 100
		top     = 87
	)
	return &layout.Grid{
		Spacing: spacing,
		Rows: []layout.Row{
			{Count: len(launcherIcons[0]), Height: top, Width: top},
			{Count: len(launcherIcons[1]), Height: normal, Width: normal, First: 100, Widths: map[int]int{10: 230}},
			{Count: len(launcherIcons[2]), Height: normal, Width: normal, First: 100, Widths: map[int]int{11: 130}},
			{Count: len(launcherIcons[3]), Height: normal, Width: normal, First: 130},
			{Count: len(launcherIcons[4]), Height: normal, Width: normal, First: 130},
			{Count: len(launcherIcons[5]), Height: normal, Width: normal, First: 130, Widths: map[int]int{3: 516}},
		},
	}
}

func (self *App) buildScreens() *widget.Registry {
	reg := widget.NewRegistry()
	r := self.rect
	m := widget.Must
	done := widget.Tap(doneAction)
	prevSetting := widget.TapValue(settingAction, -1)
	nextSetting := widget.TapValue(settingAction, 1)
	label := func(x, y int) *widget.Widget {
		return m("working", r(x, y, 157, 102), widget.WithRole(widget.RoleBusyLabel))
	}
	spinner := func(x, y int) *widget.Widget {
		return m("spinner", r(x, y, 22, 22), widget.WithRole(widget.RoleBusySpinner))
	}

	reg.Add(widget.NewScreen(ScreenPlayback,
		m("done", r(0, 188, 320, 52), widget.Icon("done"), done),
		m("prev", r(0, 0, 80, 52), widget.Icon("prev"), widget.TapValue(imageAction, -1)),
		m("next", r(240, 0, 80, 52), widget.Icon("next"), widget.TapValue(imageAction, 1)),
		label(88, 70),
		spinner(148, 129),
		m("trash", r(121, 0, 78, 52), widget.Icon("trash"), widget.TapValue(imageAction, 0)),
		m("share", image.Rectangle{}),
		m("photo", image.Rectangle{}),
	))

	reg.Add(widget.NewScreen(ScreenDelete,
		m("title", r(0, 35, 320, 33), widget.Icon("delete")),
		m("yes", r(32, 86, 120, 100), widget.Icons("yn", "yes"), widget.TapValue(deleteAction, 1)),
		m("no", r(168, 86, 120, 100), widget.Icons("yn", "no"), widget.TapValue(deleteAction, 0)),
	))

	reg.Add(widget.NewScreen(ScreenEmpty,
		m("full", r(0, 0, 320, 240), done),
		m("done", r(0, 188, 320, 52), widget.Icon("done")),
		m("empty", r(0, 53, 320, 80), widget.Icon("empty")),
	))

	reg.Add(widget.NewScreen(ScreenViewfinder,
		m("gear", r(0, 188, 156, 52), widget.Icon("gear"), widget.TapValue(viewAction, 0)),
		m("play", r(164, 188, 156, 52), widget.Icon("play"), widget.TapValue(viewAction, 1)),
		m("shutter", r(0, 0, 320, 240), widget.TapValue(viewAction, 2)),
		label(88, 51),
		spinner(148, 110),
	))

	radio := func(name string, x int, fg string, f widget.ValueAction, v int) *widget.Widget {
		bg := "radio3-0"
		if v == 0 {
			bg = "radio3-1"
		}
		return m(name, r(x, 60, 100, 120), widget.Icons(bg, fg), widget.TapValue(f, v))
	}
	settingsHead := func() []*widget.Widget {
		return []*widget.Widget{
			m("done", r(0, 188, 320, 52), widget.Icon("done"), done),
			m("prev", r(0, 0, 80, 52), widget.Icon("prev"), prevSetting),
			m("next", r(240, 0, 80, 52), widget.Icon("next"), nextSetting),
		}
	}

	storage := widget.NewScreen(ScreenStorage, settingsHead()...)
	storage.Add(
		radio("store-0", 2, "store-folder", storeAction, 0),
		radio("store-1", 110, "store-boot", storeAction, 1),
		radio("store-2", 218, "store-dropbox", storeAction, 2),
		m("title", r(0, 10, 320, 35), widget.Icon("storage")),
	)
	reg.Add(storage)

	size := widget.NewScreen(ScreenSize, settingsHead()...)
	size.Add(
		radio("size-0", 2, "size-l", sizeAction, 0),
		radio("size-1", 110, "size-m", sizeAction, 1),
		radio("size-2", 218, "size-s", sizeAction, 2),
		m("title", r(0, 10, 320, 29), widget.Icon("size")),
	)
	reg.Add(size)

	effect := widget.NewScreen(ScreenEffect, settingsHead()...)
	effect.Add(
		m("fx-prev", r(0, 70, 80, 52), widget.Icon("prev"), widget.TapValue(fxAction, -1)),
		m("fx-next", r(240, 70, 80, 52), widget.Icon("next"), widget.TapValue(fxAction, 1)),
		m("fx", r(0, 67, 320, 91), widget.Icon(fxIcon("none"))),
		m("title", r(0, 11, 320, 29), widget.Icon("fx")),
	)
	reg.Add(effect)

	iso := widget.NewScreen(ScreenISO, settingsHead()...)
	iso.Add(
		m("iso-prev", r(0, 70, 80, 52), widget.Icon("prev"), widget.TapValue(isoAction, -1)),
		m("iso-next", r(240, 70, 80, 52), widget.Icon("next"), widget.TapValue(isoAction, 1)),
		m("iso", r(0, 79, 320, 33), widget.Icon(isoIcon(0))),
		m("iso-bar", r(9, 134, 302, 26), widget.Icon("iso-bar")),
		m("iso-arrow", r(17, 157, 21, 19), widget.Icon("iso-arrow")),
		m("title", r(0, 10, 320, 29), widget.Icon("iso")),
	)
	reg.Add(iso)

	quit := widget.NewScreen(ScreenQuit, settingsHead()...)
	quit.Add(
		m("quit-ok", r(110, 60, 100, 120), widget.Icon("quit-ok"), widget.Tap(quitAction)),
		m("title", r(0, 10, 320, 35), widget.Icon("quit")),
	)
	reg.Add(quit)

	launcher := widget.NewScreen(ScreenLauncher)
	for row, icons := range launcherIcons {
		for i, icon := range icons {
			launcher.Add(m(fmt.Sprintf("r%d_%d", row+1, i), image.Rectangle{},
				widget.Icon(icon), widget.Animate(), prevSetting))
		}
	}
	launcher.Layout = LauncherGrid()
	launcher.Anim = anim.Animator{Amplitude: self.Amplitude, Ease: self.Ease}
	reg.Add(launcher)

	return reg
}
