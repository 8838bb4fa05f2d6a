package daub

import (
	"image"
	"log"
	"path/filepath"
	"time"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/esimov/daub/utils"
)

// shortcutKeys is the set of keyboard shortcuts the painting window reacts
// to: undo, redo, save, the eraser toggle and the escape key.
const shortcutKeys = "Short-Z|Short-Y|Short-S|E|" + key.NameEscape

// Gui is the interactive painting window. It translates the Gio pointer
// and keyboard events into session handler calls and presents the
// composited canvas once per frame event. The engine itself never depends
// on the window; the Gui drives it from the outside.
type Gui struct {
	cfg struct {
		window struct {
			w     float64
			h     float64
			title string
		}
	}
	session   *Session
	exportDir string
	eraseMode bool
}

// NewGUI initializes the Gio interface over an existing session.
// Exported files are placed into exportDir.
func NewGUI(session *Session, exportDir string) *Gui {
	g := &Gui{
		session:   session,
		exportDir: exportDir,
	}
	g.cfg.window.w = float64(session.Canvas().Width)
	g.cfg.window.h = float64(session.Canvas().Height)
	g.cfg.window.title = "Daub"

	return g
}

// Run is the core method of the Gio GUI application. It processes the
// window events until the window is closed; every frame event advances the
// session by one tick and uploads the freshly composited canvas.
func (g *Gui) Run() error {
	w := app.NewWindow(
		app.Title(g.cfg.window.title),
		app.Size(
			unit.Dp(float32(g.cfg.window.w)),
			unit.Dp(float32(g.cfg.window.h)),
		),
	)

	var ops op.Ops
	for e := range w.Events() {
		switch e := e.(type) {
		case system.FrameEvent:
			g.draw(w, e, &ops)
		case system.DestroyEvent:
			return e.Err
		}
	}
	return nil
}

// draw advances the session and renders one frame. The canvas is presented
// at a 1:1 pixel scale anchored to the top-left corner, so the pointer
// position maps directly onto canvas coordinates; resizing the window only
// changes the visible portion, never the canvas dimensions.
func (g *Gui) draw(w *app.Window, e system.FrameEvent, ops *op.Ops) {
	gtx := layout.NewContext(ops, e)

	for _, ev := range gtx.Events(g) {
		switch ev := ev.(type) {
		case pointer.Event:
			g.pointerEvent(ev)
		case key.Event:
			g.keyEvent(w, ev)
		}
	}

	if err := g.session.Tick(); err != nil {
		// A dropped frame is recoverable; the stroke protocol resumes
		// with the next pointer press.
		log.Println(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	frame := g.session.CurrentFrame()
	imgOp := paint.NewImageOp(frame)
	imgOp.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	g.session.MarkClean()

	// Register the event handlers for the next frame.
	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	pointer.InputOp{
		Tag:   g,
		Types: pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Cancel,
	}.Add(gtx.Ops)
	key.InputOp{Tag: g, Keys: shortcutKeys}.Add(gtx.Ops)
	area.Pop()
	key.FocusOp{Tag: g}.Add(gtx.Ops)

	w.Invalidate()
	e.Frame(gtx.Ops)
}

// pointerEvent maps a pointer event onto the session stroke protocol:
// the primary button paints (or erases when the eraser is toggled on),
// the secondary button smudges.
func (g *Gui) pointerEvent(ev pointer.Event) {
	g.session.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))

	switch ev.Type {
	case pointer.Press:
		switch {
		case ev.Buttons.Contain(pointer.ButtonPrimary):
			kind := Paint
			if g.eraseMode {
				kind = Erase
			}
			g.session.PointerDown(kind)
		case ev.Buttons.Contain(pointer.ButtonSecondary):
			g.session.PointerDown(Smudge)
		}
	case pointer.Release, pointer.Cancel:
		g.session.PointerUp()
	}
}

// keyEvent handles the keyboard shortcuts: Ctrl+Z undo, Ctrl+Y redo,
// Ctrl+S export, E eraser toggle, Esc close.
func (g *Gui) keyEvent(w *app.Window, ev key.Event) {
	if ev.State != key.Press {
		return
	}
	switch ev.Name {
	case "Z":
		if ev.Modifiers.Contain(key.ModShortcut) {
			g.session.Undo()
		}
	case "Y":
		if ev.Modifiers.Contain(key.ModShortcut) {
			g.session.Redo()
		}
	case "S":
		if ev.Modifiers.Contain(key.ModShortcut) {
			g.export()
		}
	case "E":
		g.eraseMode = !g.eraseMode
	case key.NameEscape:
		w.Perform(system.ActionClose)
	}
}

// export flattens the canvas into a timestamped PNG file.
func (g *Gui) export() {
	start := time.Now()
	path := filepath.Join(g.exportDir, ExportFileName())
	if err := ExportPNG(g.session.Canvas(), path); err != nil {
		log.Println(utils.DecorateText(err.Error(), utils.ErrorMessage))
		return
	}
	log.Printf("Saved as: %s in %s",
		utils.DecorateText(path, utils.SuccessMessage),
		utils.FormatTime(time.Since(start)),
	)
}
