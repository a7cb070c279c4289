package ime

// PreeditFocusMode tells the host what to do with the preedit when the
// input context loses focus. Values match IBusPreeditFocusMode.
type PreeditFocusMode uint32

const (
	PreeditClear  PreeditFocusMode = 0
	PreeditCommit PreeditFocusMode = 1
)

// LookupPage is the visible page of the candidate list in host widths.
type LookupPage struct {
	Candidates  []string
	PageSize    uint32
	Cursor      uint32 // relative to the page
	Orientation Orientation
}

// Display is the set of host display primitives the dispatcher drives.
// The IBus adapter implements it by emitting engine signals.
type Display interface {
	CommitText(text string)
	UpdatePreedit(text string, cursor uint32, visible bool, mode PreeditFocusMode)
	UpdateAuxiliaryText(text string, visible bool)
	UpdateLookupTable(page LookupPage, visible bool)
	HidePreedit()
	HideAuxiliaryText()
	HideLookupTable()
}

func lookupPage(t *LookupTable) LookupPage {
	return LookupPage{
		Candidates:  t.Page(),
		PageSize:    toUint32(t.PageSize()),
		Cursor:      toUint32(t.Cursor() - t.PageStart()),
		Orientation: t.Orientation(),
	}
}
