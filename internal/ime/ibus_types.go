package ime

import "github.com/godbus/dbus/v5"

// IBus serializes its objects as D-Bus structs that start with the type
// name and an attachment dictionary.

// IBusAttrList is IBusAttrList, signature (sa{sv}av).
type IBusAttrList struct {
	Name        string
	Attachments map[string]dbus.Variant
	Attributes  []dbus.Variant
}

// IBusText is IBusText, signature (sa{sv}sv).
type IBusText struct {
	Name        string
	Attachments map[string]dbus.Variant
	Text        string
	AttrList    dbus.Variant
}

// NewIBusText wraps s with an empty attribute list.
func NewIBusText(s string) IBusText {
	return IBusText{
		Name:        "IBusText",
		Attachments: map[string]dbus.Variant{},
		Text:        s,
		AttrList: dbus.MakeVariant(IBusAttrList{
			Name:        "IBusAttrList",
			Attachments: map[string]dbus.Variant{},
			Attributes:  []dbus.Variant{},
		}),
	}
}

// IBusLookupTable is IBusLookupTable, signature (sa{sv}uubbiavav).
type IBusLookupTable struct {
	Name          string
	Attachments   map[string]dbus.Variant
	PageSize      uint32
	CursorPos     uint32
	CursorVisible bool
	Round         bool
	Orientation   int32
	Candidates    []dbus.Variant
	Labels        []dbus.Variant
}

// NewIBusLookupTable converts the visible page. The cursor never wraps, so
// Round is always false.
func NewIBusLookupTable(page LookupPage) IBusLookupTable {
	candidates := make([]dbus.Variant, 0, len(page.Candidates))
	for _, c := range page.Candidates {
		candidates = append(candidates, dbus.MakeVariant(NewIBusText(c)))
	}
	return IBusLookupTable{
		Name:          "IBusLookupTable",
		Attachments:   map[string]dbus.Variant{},
		PageSize:      page.PageSize,
		CursorPos:     page.Cursor,
		CursorVisible: true,
		Round:         false,
		Orientation:   int32(page.Orientation),
		Candidates:    candidates,
		Labels:        []dbus.Variant{},
	}
}
