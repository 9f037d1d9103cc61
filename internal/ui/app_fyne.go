//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fyneTheme "fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gobanner/internal/backend"
	"gobanner/internal/config"
	"gobanner/internal/crash"
	"gobanner/internal/domain"
	"gobanner/internal/export"
	applog "gobanner/internal/log"
	"gobanner/internal/scene"
	"gobanner/internal/session"
	"gobanner/internal/storage"
	"gobanner/internal/stylepack"
	"gobanner/internal/telemetry"
	"gobanner/internal/vector"
	"gobanner/internal/version"
)

// Run starts the Fyne-based desktop editor.
func Run(draftDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	cfg, token, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	telemetry.NewDefault(telemetry.FromEnv())

	var dh *storage.DraftHandle
	defer func() { crash.Recover(dh) }()

	fyneApp := app.NewWithID("gobanner")
	w := fyneApp.NewWindow("gobanner")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	bc := NewBannerCanvas()

	client := backend.NewClient(cfg.Backend.BaseURL, token, cfg.Backend.EffectiveTimeout())

	var sess *session.Session

	// Property panel widgets. They are rebuilt from the binding state after
	// every scene event, and push edits back through the session setters.
	nameEntry := widget.NewEntry()
	textEntry := widget.NewEntry()
	sizeEntry := widget.NewEntry()
	colorEntry := widget.NewEntry()
	familySelect := widget.NewSelect([]string{"sans", "serif", "mono", "display", "script"}, nil)
	alignSelect := widget.NewSelect([]string{domain.AlignLeft, domain.AlignCenter, domain.AlignRight}, nil)
	widthEntry := widget.NewEntry()
	heightEntry := widget.NewEntry()
	shapeSelect := widget.NewSelect([]string{string(domain.ShapeRect), string(domain.ShapeCircle)}, nil)
	lockedCheck := widget.NewCheck("Locked", nil)

	textProps := container.NewVBox(
		widget.NewLabel("Text"), textEntry,
		widget.NewLabel("Font size"), sizeEntry,
		widget.NewLabel("Color"), colorEntry,
		widget.NewLabel("Font"), familySelect,
		widget.NewLabel("Align"), alignSelect,
	)
	imageProps := container.NewVBox(
		widget.NewLabel("Width"), widthEntry,
		widget.NewLabel("Height"), heightEntry,
		widget.NewLabel("Shape"), shapeSelect,
	)
	propsBox := container.NewVBox(
		widget.NewLabel("Name"), nameEntry,
		textProps,
		imageProps,
		lockedCheck,
	)
	propsBox.Hide()

	// guard suppresses setter callbacks while the panel widgets are being
	// repopulated from the binding state.
	populating := false

	refreshPanel := func() {
		if sess == nil {
			propsBox.Hide()
			return
		}
		p := sess.Panel()
		if p.State != session.SelectedState {
			propsBox.Hide()
			return
		}
		populating = true
		nameEntry.SetText(p.Name)
		switch p.Kind {
		case domain.KindText:
			textEntry.SetText(p.Text)
			sizeEntry.SetText(strconv.Itoa(p.FontSize))
			colorEntry.SetText(p.Color)
			familySelect.SetSelected(p.FontFamily)
			alignSelect.SetSelected(p.Align)
			textProps.Show()
			imageProps.Hide()
		case domain.KindImage:
			widthEntry.SetText(strconv.Itoa(p.Width))
			heightEntry.SetText(strconv.Itoa(p.Height))
			shapeSelect.SetSelected(string(p.Shape))
			textProps.Hide()
			imageProps.Show()
		}
		lockedCheck.SetChecked(p.Locked)
		populating = false
		propsBox.Show()
	}

	// Layer list (topmost last, matching z-order).
	layerIDs := []string{}
	layerNames := []string{}
	layerList := widget.NewList(
		func() int { return len(layerNames) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(layerNames) {
				o.(*widget.Label).SetText(layerNames[i])
			}
		},
	)
	refreshLayers := func() {
		layerIDs = layerIDs[:0]
		layerNames = layerNames[:0]
		if sess != nil {
			for _, e := range sess.Layers() {
				layerIDs = append(layerIDs, e.ID)
				layerNames = append(layerNames, fmt.Sprintf("%s (%s)", e.Name, e.Kind))
			}
		}
		layerList.Refresh()
	}
	layerList.OnSelected = func(i widget.ListItemID) {
		if sess != nil && int(i) < len(layerIDs) {
			sess.SelectLayer(layerIDs[i])
		}
	}

	refreshAll := func() {
		refreshPanel()
		refreshLayers()
		bc.Refresh()
	}

	nameEntry.OnSubmitted = func(v string) {
		if !populating && sess != nil {
			sess.SetName(v)
			refreshLayers()
		}
	}
	textEntry.OnSubmitted = func(v string) {
		if !populating && sess != nil {
			sess.SetText(v)
		}
	}
	sizeEntry.OnSubmitted = func(v string) {
		if populating || sess == nil {
			return
		}
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			sess.SetFontSize(n)
		}
	}
	colorEntry.OnSubmitted = func(v string) {
		if !populating && sess != nil {
			if !sess.SetColor(strings.TrimSpace(v)) {
				status.SetText("Invalid color, use #rgb or #rrggbb")
			}
		}
	}
	familySelect.OnChanged = func(v string) {
		if !populating && sess != nil {
			sess.SetFontFamily(v)
		}
	}
	alignSelect.OnChanged = func(v string) {
		if !populating && sess != nil {
			sess.SetAlign(v)
		}
	}
	applySize := func() {
		if populating || sess == nil {
			return
		}
		wv, err1 := strconv.Atoi(strings.TrimSpace(widthEntry.Text))
		hv, err2 := strconv.Atoi(strings.TrimSpace(heightEntry.Text))
		if err1 == nil && err2 == nil {
			sess.SetSize(wv, hv)
			refreshPanel()
		}
	}
	widthEntry.OnSubmitted = func(string) { applySize() }
	heightEntry.OnSubmitted = func(string) { applySize() }
	shapeSelect.OnChanged = func(v string) {
		if !populating && sess != nil {
			sess.SetShape(domain.Shape(v))
			refreshPanel()
		}
	}
	lockedCheck.OnChanged = func(v bool) {
		if !populating && sess != nil {
			sess.SetLocked(v)
		}
	}

	openDraft := func(dir string) error {
		h, err := storage.Open(dir)
		if err != nil {
			return err
		}
		dh = h
		sess = session.New(h.Banner.Template, bc, client, session.Config{
			SnapTolerance: float32(cfg.Editor.SnapTolerance),
			HistoryDepth:  cfg.Editor.HistoryDepth,
		})
		bc.Bind(sess)
		sess.Scene().Subscribe(func(scene.Event) { refreshPanel(); refreshLayers() })
		sess.Hydrate(h.Banner.Fields)
		refreshAll()
		status.SetText(fmt.Sprintf("Opened %s (%s)", h.Banner.Template.Name, dir))
		telemetry.Event("draft_opened", map[string]any{"fields": len(h.Banner.Fields)})
		w.SetTitle("gobanner - " + h.Banner.Template.Name)
		return nil
	}

	requireSession := func() bool {
		if sess == nil {
			dialog.ShowInformation("No draft", "Open or create a draft first.", w)
			return false
		}
		return true
	}

	saveDraft := func() {
		if dh == nil || sess == nil {
			return
		}
		dh.Banner.Fields = sess.Serialize()
		if err := storage.Save(dh); err != nil {
			dialog.ShowError(err, w)
			return
		}
		if _, err := export.WritePreview(dh, 0); err != nil {
			l.Warn("preview render failed", slog.Any("err", err))
		}
		status.SetText("Draft saved")
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(fyneTheme.FolderOpenIcon(), func() {
			dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
				if err != nil || u == nil {
					return
				}
				if err := openDraft(u.Path()); err != nil {
					dialog.ShowError(err, w)
				}
			}, w)
		}),
		widget.NewToolbarAction(fyneTheme.DocumentSaveIcon(), saveDraft),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(fyneTheme.ContentAddIcon(), func() {
			if !requireSession() {
				return
			}
			entry := widget.NewEntry()
			entry.SetText("new_field")
			dialog.ShowForm("Add text field", "Add", "Cancel",
				[]*widget.FormItem{widget.NewFormItem("Name", entry)},
				func(ok bool) {
					if !ok {
						return
					}
					sess.AddText(domain.TextConfig{Name: entry.Text, X: 50, Y: 50})
					refreshAll()
				}, w)
		}),
		widget.NewToolbarAction(fyneTheme.MediaPhotoIcon(), func() {
			if !requireSession() {
				return
			}
			sess.AddImage(domain.ImageConfig{Name: "image", X: 50, Y: 50})
			refreshAll()
		}),
		widget.NewToolbarAction(fyneTheme.DeleteIcon(), func() {
			if !requireSession() {
				return
			}
			if p := sess.Panel(); p.State == session.SelectedState {
				sess.Delete(p.FieldID)
				refreshAll()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(fyneTheme.NavigateBackIcon(), func() {
			if sess != nil && sess.Undo() {
				refreshAll()
			}
		}),
		widget.NewToolbarAction(fyneTheme.NavigateNextIcon(), func() {
			if sess != nil && sess.Redo() {
				refreshAll()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(fyneTheme.UploadIcon(), func() {
			if !requireSession() {
				return
			}
			if err := sess.Save(context.Background()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Fields pushed to backend")
			telemetry.Event("banner_saved", map[string]any{"fields": len(sess.Serialize())})
		}),
		widget.NewToolbarAction(fyneTheme.DownloadIcon(), func() {
			if !requireSession() {
				return
			}
			if err := sess.Load(context.Background()); err != nil {
				dialog.ShowError(err, w)
				return
			}
			refreshAll()
			status.SetText("Fields pulled from backend")
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(fyneTheme.MailForwardIcon(), func() {
			if dh == nil || sess == nil {
				return
			}
			dh.Banner.Fields = sess.Serialize()
			if err := export.BatchExport(dh, export.BatchOptions{Preset: export.PresetProof}); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported proof PNG and PDF")
		}),
	)

	presetsBtn := widget.NewButton("Apply style preset", func() {
		if dh == nil || !requireSession() {
			return
		}
		presets, err := stylepack.LoadPresets(dh.Root)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if len(presets) == 0 {
			dialog.ShowInformation("Style presets", "No presets in the draft's styles/ directory.", w)
			return
		}
		names := make([]string, len(presets))
		for i, p := range presets {
			names[i] = p.Name
		}
		sel := widget.NewSelect(names, nil)
		dialog.ShowForm("Apply style preset", "Apply", "Cancel",
			[]*widget.FormItem{widget.NewFormItem("Preset", sel)},
			func(ok bool) {
				if !ok || sel.Selected == "" {
					return
				}
				for _, p := range presets {
					if p.Name == sel.Selected {
						sess.SetFontSize(p.FontSize)
						if p.Color != "" {
							sess.SetColor(p.Color)
						}
						if p.FontFamily != "" {
							sess.SetFontFamily(p.FontFamily)
						}
						if domain.ValidAlign(p.Align) {
							sess.SetAlign(p.Align)
						}
						refreshPanel()
						break
					}
				}
			}, w)
	})

	right := container.NewVBox(
		widget.NewLabelWithStyle("Properties", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		propsBox,
		presetsBtn,
	)
	left := container.NewBorder(
		widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, layerList)

	// Undo/redo shortcuts.
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess != nil && sess.Undo() {
			refreshAll()
		}
	})
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) {
		if sess != nil && sess.Redo() {
			refreshAll()
		}
	})

	bc.onChanged = refreshAll

	content := container.NewBorder(
		toolbar,
		status,
		left,
		right,
		container.NewScroll(bc),
	)
	w.SetContent(content)

	w.SetOnClosed(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
	})

	if draftDir != "" {
		if err := openDraft(draftDir); err != nil {
			l.Error("open draft failed", slog.Any("err", err))
			status.SetText("Open failed: " + err.Error())
		}
	}

	w.ShowAndRun()
	return nil
}

// fieldVisual is the per-field canvas object bundle. Text fields render as a
// single canvas.Text; image fields render their placeholder frame plus a
// name label.
type fieldVisual struct {
	field  *domain.Field
	text   *canvas.Text
	rect   *canvas.Rectangle
	circle *canvas.Circle
	label  *canvas.Text
}

func (v *fieldVisual) objects() []fyne.CanvasObject {
	var out []fyne.CanvasObject
	if v.rect != nil {
		out = append(out, v.rect)
	}
	if v.circle != nil {
		out = append(out, v.circle)
	}
	if v.label != nil {
		out = append(out, v.label)
	}
	if v.text != nil {
		out = append(out, v.text)
	}
	return out
}

// BannerCanvas is the drawing surface. It implements scene.Renderer so the
// session drives it directly, and the Fyne gesture interfaces so pointer
// input flows back into the session.
type BannerCanvas struct {
	widget.BaseWidget

	sess      *session.Session
	visuals   map[string]*fieldVisual
	order     []string
	bg        *canvas.Rectangle
	selBox    *canvas.Rectangle
	vGuide    *canvas.Line
	hGuide    *canvas.Line
	dragID    string
	dragDX    float32
	dragDY    float32
	onChanged func()
}

func NewBannerCanvas() *BannerCanvas {
	bc := &BannerCanvas{
		visuals: make(map[string]*fieldVisual),
		bg:      canvas.NewRectangle(color.NRGBA{R: 0x2e, G: 0x2e, B: 0x3a, A: 0xff}),
		selBox:  canvas.NewRectangle(color.Transparent),
		vGuide:  canvas.NewLine(color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0xff}),
		hGuide:  canvas.NewLine(color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0xff}),
	}
	bc.selBox.StrokeColor = color.NRGBA{R: 0x4d, G: 0x9f, B: 0xff, A: 0xff}
	bc.selBox.StrokeWidth = 2
	bc.selBox.Hide()
	bc.vGuide.StrokeWidth = 1
	bc.vGuide.Hide()
	bc.hGuide.StrokeWidth = 1
	bc.hGuide.Hide()
	bc.ExtendBaseWidget(bc)
	return bc
}

// Bind attaches the session after it is constructed (the session itself
// needs the canvas as its renderer, so construction is two-phase).
func (bc *BannerCanvas) Bind(s *session.Session) {
	bc.sess = s
	bc.visuals = make(map[string]*fieldVisual)
	bc.order = nil
	bc.Refresh()
}

// Attach implements scene.Renderer.
func (bc *BannerCanvas) Attach(f *domain.Field) {
	v := &fieldVisual{field: f}
	switch f.Kind {
	case domain.KindText:
		v.text = canvas.NewText(displayText(f), parseHex(f.Color))
		v.text.TextSize = float32(f.FontSize)
		v.text.TextStyle = textStyleFor(f.FontFamily)
	case domain.KindImage:
		if f.Shape == domain.ShapeCircle {
			v.circle = canvas.NewCircle(color.Transparent)
			v.circle.StrokeColor = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
			v.circle.StrokeWidth = 2
		} else {
			v.rect = canvas.NewRectangle(color.Transparent)
			v.rect.StrokeColor = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
			v.rect.StrokeWidth = 2
		}
		v.label = canvas.NewText(f.Name, color.NRGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff})
		v.label.TextSize = 12
	}
	bc.visuals[f.ID] = v
	bc.order = append(bc.order, f.ID)
	bc.syncVisual(v)
}

// Detach implements scene.Renderer.
func (bc *BannerCanvas) Detach(id string) {
	delete(bc.visuals, id)
	for i, vid := range bc.order {
		if vid == id {
			bc.order = append(bc.order[:i], bc.order[i+1:]...)
			break
		}
	}
	if bc.dragID == id {
		bc.dragID = ""
	}
}

// Update implements scene.Renderer.
func (bc *BannerCanvas) Update(f *domain.Field) {
	if v, ok := bc.visuals[f.ID]; ok {
		bc.syncVisual(v)
	}
}

// ShowGuide implements scene.Renderer.
func (bc *BannerCanvas) ShowGuide(g vector.GuideLine) {
	line := bc.vGuide
	if g.Orientation == vector.Horizontal {
		line = bc.hGuide
	}
	line.Position1 = fyne.NewPos(g.From.X, g.From.Y)
	line.Position2 = fyne.NewPos(g.To.X, g.To.Y)
	line.Show()
}

// ClearGuide implements scene.Renderer.
func (bc *BannerCanvas) ClearGuide(orientation string) {
	if orientation == vector.Horizontal {
		bc.hGuide.Hide()
		return
	}
	bc.vGuide.Hide()
}

// Render implements scene.Renderer.
func (bc *BannerCanvas) Render() { bc.Refresh() }

func (bc *BannerCanvas) syncVisual(v *fieldVisual) {
	f := v.field
	if v.text != nil {
		v.text.Text = displayText(f)
		v.text.Color = parseHex(f.Color)
		v.text.TextSize = float32(f.FontSize)
		v.text.TextStyle = textStyleFor(f.FontFamily)
		v.text.Move(fyne.NewPos(alignedX(f), float32(f.Y)))
		v.text.Hidden = !f.Visible
	}
	frame := fyne.NewPos(float32(f.X), float32(f.Y))
	size := fyne.NewSize(float32(f.Width), float32(f.Height))
	if v.rect != nil {
		v.rect.Move(frame)
		v.rect.Resize(size)
		v.rect.Hidden = !f.Visible
	}
	if v.circle != nil {
		v.circle.Move(frame)
		v.circle.Resize(size)
		v.circle.Hidden = !f.Visible
	}
	if v.label != nil {
		v.label.Text = f.Name
		v.label.Move(fyne.NewPos(float32(f.X)+4, float32(f.Y)+4))
		v.label.Hidden = !f.Visible
	}
}

// alignedX gives the on-screen left edge of a text visual. X is the anchor:
// the left edge for left-aligned text, the midpoint for centered text, the
// right edge for right-aligned text.
func alignedX(f *domain.Field) float32 {
	switch f.Align {
	case domain.AlignCenter:
		return float32(f.X) - float32(f.Width)/2
	case domain.AlignRight:
		return float32(f.X) - float32(f.Width)
	default:
		return float32(f.X)
	}
}

func displayText(f *domain.Field) string {
	if f.Text != "" {
		return f.Text
	}
	return f.Name
}

func textStyleFor(family string) fyne.TextStyle {
	switch family {
	case "mono":
		return fyne.TextStyle{Monospace: true}
	case "display":
		return fyne.TextStyle{Bold: true}
	case "script":
		return fyne.TextStyle{Italic: true}
	default:
		return fyne.TextStyle{}
	}
}

func parseHex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		if v, err := strconv.ParseUint(s, 16, 16); err == nil {
			r = uint8(v>>8&0xf) * 17
			g = uint8(v>>4&0xf) * 17
			b = uint8(v&0xf) * 17
		}
	case 6:
		if v, err := strconv.ParseUint(s, 16, 32); err == nil {
			r = uint8(v >> 16)
			g = uint8(v >> 8)
			b = uint8(v)
		}
	default:
		return color.White
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// hitTest returns the topmost visible field containing the point.
func (bc *BannerCanvas) hitTest(pos fyne.Position) *domain.Field {
	if bc.sess == nil {
		return nil
	}
	for i := len(bc.order) - 1; i >= 0; i-- {
		v, ok := bc.visuals[bc.order[i]]
		if !ok || !v.field.Visible {
			continue
		}
		f := v.field
		x0 := float32(f.X)
		if f.Kind == domain.KindText {
			x0 = alignedX(f)
		}
		r := vector.R(x0, float32(f.Y), float32(f.Width), float32(f.Height))
		if r.Contains(vector.Pt{X: pos.X, Y: pos.Y}) {
			return f
		}
	}
	return nil
}

// Tapped selects the field under the pointer, or clears the selection on
// empty canvas.
func (bc *BannerCanvas) Tapped(e *fyne.PointEvent) {
	if bc.sess == nil {
		return
	}
	if f := bc.hitTest(e.Position); f != nil {
		bc.sess.Select(f.ID)
	} else {
		bc.sess.ClearSelection()
	}
	if bc.onChanged != nil {
		bc.onChanged()
	}
}

// Dragged moves the field under the pointer, snapping against the canvas
// center lines on every frame.
func (bc *BannerCanvas) Dragged(e *fyne.DragEvent) {
	if bc.sess == nil {
		return
	}
	if bc.dragID == "" {
		f := bc.hitTest(e.Position)
		if f == nil || f.Locked {
			return
		}
		bc.dragID = f.ID
		bc.dragDX = e.Position.X - float32(f.X)
		bc.dragDY = e.Position.Y - float32(f.Y)
		bc.sess.Select(f.ID)
	}
	bc.sess.DragUpdate(bc.dragID, e.Position.X-bc.dragDX, e.Position.Y-bc.dragDY)
}

// DragEnd commits the gesture through the session.
func (bc *BannerCanvas) DragEnd() {
	if bc.sess == nil || bc.dragID == "" {
		return
	}
	bc.sess.DragEnd(bc.dragID)
	bc.dragID = ""
	if bc.onChanged != nil {
		bc.onChanged()
	}
}

func (bc *BannerCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &bannerCanvasRenderer{bc: bc}
}

func (bc *BannerCanvas) MinSize() fyne.Size {
	if bc.sess != nil {
		sz := bc.sess.CanvasSize()
		if sz.W > 0 && sz.H > 0 {
			return fyne.NewSize(sz.W, sz.H)
		}
	}
	return fyne.NewSize(domain.DefaultCanvasWidth, domain.DefaultCanvasHeight)
}

type bannerCanvasRenderer struct {
	bc      *BannerCanvas
	objects []fyne.CanvasObject
}

func (r *bannerCanvasRenderer) Destroy()                     {}
func (r *bannerCanvasRenderer) MinSize() fyne.Size           { return r.bc.MinSize() }
func (r *bannerCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *bannerCanvasRenderer) Layout(size fyne.Size) {
	r.bc.bg.Resize(r.bc.MinSize())
}

func (r *bannerCanvasRenderer) Refresh() {
	bc := r.bc
	objs := []fyne.CanvasObject{bc.bg}
	var selected *domain.Field
	if bc.sess != nil {
		if active := bc.sess.Scene().Active(); active != nil {
			selected = active
		}
	}
	for _, id := range bc.order {
		if v, ok := bc.visuals[id]; ok {
			bc.syncVisual(v)
			objs = append(objs, v.objects()...)
		}
	}
	if selected != nil {
		x0 := float32(selected.X)
		if selected.Kind == domain.KindText {
			x0 = alignedX(selected)
		}
		bc.selBox.Move(fyne.NewPos(x0-2, float32(selected.Y)-2))
		bc.selBox.Resize(fyne.NewSize(float32(selected.Width)+4, float32(selected.Height)+4))
		bc.selBox.Show()
	} else {
		bc.selBox.Hide()
	}
	objs = append(objs, bc.selBox, bc.vGuide, bc.hGuide)
	r.objects = objs
	bc.bg.Resize(bc.MinSize())
	canvas.Refresh(bc)
}
