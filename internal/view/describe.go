// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package view

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/render"
	"github.com/im-n1/kosatka/internal/ui"
	"gopkg.in/yaml.v3"
)

const (
	formatDetails = "details"
	formatYAML    = "yaml"
)

// Describe shows one resource, either as labelled details or as the raw
// backend object in YAML.
type Describe struct {
	*tview.TextView

	rid     *dao.ResourceID
	res     dao.Resource
	format  string
	actions *ui.KeyActions
	now     func() time.Time
}

// NewDescribe returns a describe view for res.
func NewDescribe(rid *dao.ResourceID, res dao.Resource) *Describe {
	d := Describe{
		TextView: tview.NewTextView(),
		rid:      rid,
		res:      res,
		format:   formatDetails,
		actions:  ui.NewKeyActions(),
		now:      time.Now,
	}
	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return &d
}

// Init binds keys.
func (d *Describe) Init(context.Context) error {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:      ui.NewKeyAction("Toggle YAML", d.toggleCmd, true),
		tcell.KeyEsc: ui.NewKeyAction("Back", nil, true),
	})
	d.SetInputCapture(d.keyboard)

	return nil
}

// Start renders the content.
func (d *Describe) Start() {
	d.refresh()
}

// Stop is a no-op.
func (*Describe) Stop() {}

// Name returns the view name.
func (*Describe) Name() string {
	return "describe"
}

// Hints returns the menu hints for this view.
func (d *Describe) Hints() ui.MenuHints {
	return d.actions.Hints()
}

// Format returns the active format.
func (d *Describe) Format() string {
	return d.format
}

func (d *Describe) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() == tcell.KeyRune {
		row, _ := d.GetScrollOffset()
		switch evt.Rune() {
		case 'j':
			d.ScrollTo(row+1, 0)
			return nil
		case 'k':
			d.ScrollTo(max(row-1, 0), 0)
			return nil
		case 'g':
			d.ScrollToBeginning()
			return nil
		case 'G':
			d.ScrollToEnd()
			return nil
		}
	}

	return d.actions.Dispatch(evt)
}

func (d *Describe) toggleCmd(*tcell.EventKey) *tcell.EventKey {
	if d.format == formatYAML {
		d.format = formatDetails
	} else {
		d.format = formatYAML
	}
	d.refresh()

	return nil
}

func (d *Describe) refresh() {
	d.Clear()
	d.SetTitle(fmt.Sprintf(" [aqua::b]%s[white::-]([fuchsia::b]%s[white::-]) [%s] ",
		d.rid, tview.Escape(render.Truncate(d.res.ID, 40)), d.format))
	d.SetText(d.content())
	d.ScrollToBeginning()
}

func (d *Describe) content() string {
	if d.format == formatYAML {
		return describeYAML(d.res.Raw)
	}
	return describeDetails(render.Describe(d.res, d.now()))
}

func describeDetails(ff []render.Field) string {
	width := 0
	for _, f := range ff {
		width = max(width, len(f.Key))
	}
	var b strings.Builder
	for _, f := range ff {
		fmt.Fprintf(&b, "[aqua::]%-*s[-::] %s\n", width+1, f.Key+":", tview.Escape(f.Value))
	}
	return b.String()
}

func describeYAML(raw any) string {
	if raw == nil {
		return "[gray::]No raw data available[-::]"
	}
	bb, err := yaml.Marshal(cleanValue(reflect.ValueOf(raw)))
	if err != nil {
		return fmt.Sprintf("[red::]Error generating YAML: %v[-::]", err)
	}

	return highlightYAML(string(bb))
}

// highlightYAML colors keys, leaving values as is.
func highlightYAML(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " -")
		indent := line[:len(line)-len(trimmed)]
		key, val, ok := strings.Cut(trimmed, ":")
		if !ok || strings.ContainsAny(key, " \"'") {
			b.WriteString(tview.Escape(line) + "\n")
			continue
		}
		fmt.Fprintf(&b, "%s[aqua::]%s:[-::]%s\n", indent, key, tview.Escape(val))
	}
	return b.String()
}

// cleanValue converts SDK structs into maps, dropping unexported, nil and
// empty fields so both backends produce compact YAML.
func cleanValue(v reflect.Value) any {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if t, ok := v.Interface().(time.Time); ok {
			if t.IsZero() {
				return nil
			}
			return t.UTC().Format(time.RFC3339)
		}
		m := make(map[string]any)
		typ := v.Type()
		for i := range v.NumField() {
			f := typ.Field(i)
			if !f.IsExported() {
				continue
			}
			if c := cleanValue(v.Field(i)); c != nil {
				m[fieldName(f)] = c
			}
		}
		if len(m) == 0 {
			return nil
		}
		return m
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return nil
		}
		out := make([]any, 0, v.Len())
		for i := range v.Len() {
			if c := cleanValue(v.Index(i)); c != nil {
				out = append(out, c)
			}
		}
		return out
	case reflect.Map:
		if v.Len() == 0 {
			return nil
		}
		m := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			if c := cleanValue(iter.Value()); c != nil {
				m[fmt.Sprint(iter.Key().Interface())] = c
			}
		}
		return m
	case reflect.String:
		if v.Len() == 0 {
			return nil
		}
		return v.String()
	case reflect.Invalid, reflect.Func, reflect.Chan:
		return nil
	default:
		return v.Interface()
	}
}

func fieldName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if n, _, _ := strings.Cut(tag, ","); n != "" && n != "-" {
			return n
		}
	}
	return f.Name
}
