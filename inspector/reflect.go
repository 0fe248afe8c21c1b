// Package inspector turns component structs into display rows using their
// `inspect` struct tags.
package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Widget types for rendering fields.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSkip
)

// Field represents a component field with rendering hints.
type Field struct {
	Name    string
	Value   any
	Widget  Widget
	Options map[string]string
}

// Row is a field ready to draw.
type Row struct {
	Name   string
	Text   string
	Widget Widget
	Value  float32 // bar value
	Max    float32 // bar maximum
}

// ParseTag parses an inspect struct tag.
// Format: `inspect:"widget[,option:value...]"`
// Examples:
//
//	`inspect:"bar"`
//	`inspect:"bar,max:Max"`
//	`inspect:"label,fmt:%.1fs"`
//	`inspect:"skip"`
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)

	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")

	var widget Widget
	switch strings.TrimSpace(parts[0]) {
	case "label":
		widget = WidgetLabel
	case "bar":
		widget = WidgetBar
	case "bool":
		widget = WidgetBool
	case "skip":
		widget = WidgetSkip
	default:
		widget = WidgetAuto
	}

	for _, part := range parts[1:] {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			options[kv[0]] = kv[1]
		}
	}

	return widget, options
}

// ExtractFields uses reflection to extract the exported fields of a component.
func ExtractFields(component any) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field

	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)

		// Embedded structs and unexported fields are not shown
		if !sf.IsExported() || sf.Anonymous {
			continue
		}

		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		if widget == WidgetAuto {
			widget = autoDetectWidget(fv)
		}

		fields = append(fields, Field{
			Name:    sf.Name,
			Value:   fv.Interface(),
			Widget:  widget,
			Options: options,
		})
	}

	return fields
}

// Rows extracts and formats the fields of a component. A bar's max option
// may be a number or the name of a sibling field.
func Rows(component any) []Row {
	fields := ExtractFields(component)
	byName := make(map[string]any, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.Value
	}
	// Skipped fields can still serve as a bar maximum.
	v := reflect.Indirect(reflect.ValueOf(component))

	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		row := Row{Name: f.Name, Widget: f.Widget}
		switch f.Widget {
		case WidgetBar:
			row.Value, _ = GetFloatValue(f.Value)
			row.Max = resolveMax(f.Options, byName, v)
			row.Text = FormatValue(f.Value, f.Options["fmt"])
		case WidgetBool:
			row.Text = "no"
			if b, ok := f.Value.(bool); ok && b {
				row.Text = "yes"
			}
		default:
			row.Text = FormatValue(f.Value, f.Options["fmt"])
		}
		rows = append(rows, row)
	}
	return rows
}

func resolveMax(options map[string]string, byName map[string]any, v reflect.Value) float32 {
	name, ok := options["max"]
	if !ok {
		return 1.0
	}
	if val, ok := byName[name]; ok {
		if f, ok := GetFloatValue(val); ok {
			return f
		}
	}
	if v.Kind() == reflect.Struct {
		if fv := v.FieldByName(name); fv.IsValid() && fv.CanInterface() {
			if f, ok := GetFloatValue(fv.Interface()); ok {
				return f
			}
		}
	}
	return GetMax(options)
}

// autoDetectWidget chooses a widget based on the field type.
func autoDetectWidget(v reflect.Value) Widget {
	if v.Kind() == reflect.Bool {
		return WidgetBool
	}
	return WidgetLabel
}

// FormatValue formats a field value as a string.
func FormatValue(value any, fmtStr string) string {
	if fmtStr == "" {
		switch v := value.(type) {
		case float32:
			return fmt.Sprintf("%.2f", v)
		case float64:
			return fmt.Sprintf("%.2f", v)
		default:
			return fmt.Sprintf("%v", value)
		}
	}
	return fmt.Sprintf(fmtStr, value)
}

// GetMax returns the max option as a float, defaulting to 1.0.
func GetMax(options map[string]string) float32 {
	if maxStr, ok := options["max"]; ok {
		if max, err := strconv.ParseFloat(maxStr, 32); err == nil {
			return float32(max)
		}
	}
	return 1.0
}

// GetFloatValue extracts a float32 from numeric types.
func GetFloatValue(value any) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case int32:
		return float32(v), true
	case int64:
		return float32(v), true
	case uint32:
		return float32(v), true
	default:
		return 0, false
	}
}
