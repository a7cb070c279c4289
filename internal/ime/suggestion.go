package ime

import "openbangla/internal/engine"

// SuggestionView is the displayable form of one engine suggestion.
type SuggestionView struct {
	src        engine.Suggestion
	aux        string
	candidates []string
	prevIndex  int
	lonely     bool
}

// NewSuggestionView captures s. The view does not change afterwards.
func NewSuggestionView(s engine.Suggestion) *SuggestionView {
	v := &SuggestionView{
		src:    s,
		lonely: s.IsLonely(),
	}
	if !v.lonely {
		v.aux = s.AuxiliaryText()
		v.candidates = append([]string(nil), s.Candidates()...)
		v.prevIndex = s.PreviouslySelectedIndex()
	}
	return v
}

func (v *SuggestionView) IsLonely() bool               { return v.lonely }
func (v *SuggestionView) AuxiliaryText() string        { return v.aux }
func (v *SuggestionView) Candidates() []string         { return v.candidates }
func (v *SuggestionView) PreviouslySelectedIndex() int { return v.prevIndex }

// PreeditText is the inline text for the candidate at index.
func (v *SuggestionView) PreeditText(index int) string {
	return v.src.PreeditText(index)
}

// LonelyText is the decided text of a lonely suggestion.
func (v *SuggestionView) LonelyText() string {
	return v.src.LonelyText()
}
