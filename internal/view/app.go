// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2024 kosatka Contributors

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
	"github.com/im-n1/kosatka/internal/ui"
)

const (
	// FlashDelay sets the flash auto-clear delay.
	FlashDelay = 5 * time.Second

	mainPage = "main"
)

// FlashLevel represents flash message severity.
type FlashLevel int

const (
	// FlashInfo represents an info message.
	FlashInfo FlashLevel = iota
	// FlashWarn represents a warning message.
	FlashWarn
	// FlashErr represents an error message.
	FlashErr
)

// Flash shows short lived status messages.
type Flash struct {
	*tview.TextView

	app    *App
	style  config.FlashStyle
	cancel context.CancelFunc
	gen    uint64
	mx     sync.Mutex
}

// NewFlash creates a flash bar. Messages are set on the calling goroutine,
// which must be the UI goroutine while the app runs. app may be nil, in which
// case expired messages are cleared inline.
func NewFlash(app *App, s config.FlashStyle) *Flash {
	f := Flash{
		TextView: tview.NewTextView(),
		app:      app,
		style:    s,
	}
	f.SetDynamicColors(true)
	f.SetTextAlign(tview.AlignLeft)
	f.SetBorderPadding(0, 0, 1, 1)
	f.SetBackgroundColor(tcell.ColorDefault)

	return &f
}

// Info displays an informational message.
func (f *Flash) Info(msg string) {
	f.setMessage(FlashInfo, msg)
}

// Infof displays a formatted informational message.
func (f *Flash) Infof(format string, args ...any) {
	f.Info(fmt.Sprintf(format, args...))
}

// Warn displays a warning message.
func (f *Flash) Warn(msg string) {
	f.setMessage(FlashWarn, msg)
}

// Err displays an error message.
func (f *Flash) Err(err error) {
	if err != nil {
		f.setMessage(FlashErr, err.Error())
	}
}

// Errf displays a formatted error message.
func (f *Flash) Errf(format string, args ...any) {
	f.setMessage(FlashErr, fmt.Sprintf(format, args...))
}

// Clear clears the flash message.
func (f *Flash) Clear() {
	f.next()
	f.TextView.Clear()
}

// next cancels any pending auto-clear and starts a new message generation.
func (f *Flash) next() uint64 {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++

	return f.gen
}

func (f *Flash) setMessage(level FlashLevel, msg string) {
	if msg == "" {
		f.Clear()
		return
	}

	gen := f.next()
	f.TextView.Clear()
	f.SetTextColor(f.color(level))
	_, _ = fmt.Fprintf(f.TextView, "%s %s", flashPrefix(level), tview.Escape(msg))

	ctx, cancel := context.WithCancel(context.Background())
	f.mx.Lock()
	f.cancel = cancel
	f.mx.Unlock()
	go f.autoClear(ctx, gen)
}

func (f *Flash) autoClear(ctx context.Context, gen uint64) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(FlashDelay):
	}
	if f.app != nil && f.app.IsRunning() {
		f.app.QueueUpdateDraw(func() { f.expire(gen) })
		return
	}
	f.expire(gen)
}

// expire clears the bar only if gen is still the current message.
func (f *Flash) expire(gen uint64) {
	f.mx.Lock()
	current := f.gen == gen
	f.mx.Unlock()
	if current {
		f.TextView.Clear()
	}
}

func (f *Flash) color(level FlashLevel) tcell.Color {
	switch level {
	case FlashWarn:
		return f.style.WarnColor.Color()
	case FlashErr:
		return f.style.ErrColor.Color()
	default:
		return f.style.InfoColor.Color()
	}
}

func flashPrefix(level FlashLevel) string {
	switch level {
	case FlashWarn:
		return "😗"
	case FlashErr:
		return "😡"
	default:
		return "😎"
	}
}

// App represents the main application container.
type App struct {
	*tview.Application

	version string
	Main    *tview.Pages
	Content *ui.Pages
	config  *config.Config
	style   *config.Style
	factory dao.Factory
	bridge  *model.Bridge
	command *Command
	cmdBar  *ui.CmdBar
	menu    *ui.Menu
	crumbs  *ui.Crumbs
	flash   *Flash
	images  *Images
	running bool
	mx      sync.RWMutex
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, style *config.Style, f dao.Factory, b *model.Bridge, version string) *App {
	if style == nil {
		style = config.NewStyle()
	}
	a := App{
		Application: tview.NewApplication(),
		version:     version,
		Main:        tview.NewPages(),
		Content:     ui.NewPages(),
		config:      cfg,
		style:       style,
		factory:     f,
		bridge:      b,
		menu:        ui.NewMenu(),
	}
	a.flash = NewFlash(&a, style.Flash)
	a.crumbs = ui.NewCrumbs(a.Content.Stack)

	return &a
}

// Init wires the views and builds the layout.
func (a *App) Init() error {
	aliases := config.NewAliases()
	if err := aliases.Load(); err != nil {
		slog.Warn("Unable to load aliases", "err", err)
	}
	a.command = NewCommand(a, aliases)

	a.cmdBar = ui.NewCmdBar(a.command.Names())
	a.cmdBar.SetActiveFn(func(active bool) {
		if active {
			a.SetFocus(a.cmdBar)
			return
		}
		a.focusTop()
	})
	a.cmdBar.SetCommandFn(func(cmd string) {
		if err := a.command.Run(cmd); err != nil {
			slog.Error("Command failed", "cmd", cmd, "err", err)
			a.flash.Err(err)
		}
	})

	a.images = NewImages(a)
	if err := a.images.Init(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize images view: %w", err)
	}

	a.Content.AddListener(a.menu)
	a.Content.AddListener(a.crumbs)
	a.Content.Push(a.images)

	a.Main.AddPage(mainPage, a.buildLayout(), true, true)
	a.SetRoot(a.Main, true)
	a.EnableMouse(a.config.Kosatka.UI.EnableMouse)
	a.SetInputCapture(a.keyboard)
	a.focusTop()

	return nil
}

// Run loads the configured backend and starts the event loop.
func (a *App) Run() error {
	if err := a.command.Run(""); err != nil {
		slog.Error("Default command failed", "err", err)
		a.flash.Err(err)
	}

	a.mx.Lock()
	a.running = true
	a.mx.Unlock()

	return a.Application.Run()
}

// Stop stops the application.
func (a *App) Stop() {
	a.mx.Lock()
	a.running = false
	a.mx.Unlock()
	a.Application.Stop()
}

// IsRunning returns whether the event loop is running.
func (a *App) IsRunning() bool {
	a.mx.RLock()
	defer a.mx.RUnlock()
	return a.running
}

// QueueUpdateDraw queues fn on the UI goroutine. Updates run in call order.
// Must not be called from the UI goroutine.
func (a *App) QueueUpdateDraw(fn func()) {
	a.Application.QueueUpdateDraw(fn)
}

// Flash returns the flash message handler.
func (a *App) Flash() *Flash {
	return a.flash
}

// Factory returns the backend factory.
func (a *App) Factory() dao.Factory {
	return a.factory
}

// Config returns the application config.
func (a *App) Config() *config.Config {
	return a.config
}

// Styles returns the active style.
func (a *App) Styles() *config.Style {
	return a.style
}

// Images returns the main table view.
func (a *App) Images() *Images {
	return a.images
}

// Version returns the build version.
func (a *App) Version() string {
	return a.version
}

func (a *App) buildLayout() *tview.Flex {
	bottom := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flash, 1, 0, false).
		AddItem(a.menu, ui.MenuRows, 0, false)

	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.cmdBar, 3, 0, false).
		AddItem(a.Content, 0, 1, true).
		AddItem(bottom, ui.MenuRows+2, 0, false)
}

// focusTop focuses the top component of the content stack.
func (a *App) focusTop() {
	if top := a.Content.Current(); top != nil {
		a.SetFocus(top)
	}
}

// PushView stacks c over the current view.
func (a *App) PushView(c ui.Component) error {
	if err := c.Init(context.Background()); err != nil {
		return err
	}
	a.Content.Push(c)
	c.Start()
	a.SetFocus(c)

	return nil
}

// PopView returns to the previous view. The main table is never popped.
func (a *App) PopView() bool {
	if a.Content.Len() <= 1 {
		return false
	}
	a.Content.Pop()
	a.focusTop()

	return true
}

func (a *App) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if a.cmdBar.IsActive() || a.Content.HasOverlay() {
		return evt
	}

	switch evt.Key() {
	case tcell.KeyCtrlC:
		a.Stop()
		return nil
	case tcell.KeyEsc:
		if a.PopView() {
			return nil
		}
		return evt
	case tcell.KeyRune:
		switch evt.Rune() {
		case ':':
			a.cmdBar.Activate()
			return nil
		case '?':
			if _, ok := a.Content.Current().(*Help); !ok {
				if err := a.PushView(NewHelp(a)); err != nil {
					a.flash.Err(err)
				}
			}
			return nil
		case 'q':
			a.Stop()
			return nil
		}
	}

	return evt
}
