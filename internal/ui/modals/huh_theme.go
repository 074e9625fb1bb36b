package modals

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/chatlog/internal/keys"
)

// formInset is the modal padding and border around a form
const formInset = 4

// newModalForm builds the single-group form of a modal: themed from the
// current palette, stacked, without huh's own help line. The form is
// initialized so the first render already shows its fields.
func newModalForm(width int, fields ...huh.Field) *huh.Form {
	form := huh.NewForm(huh.NewGroup(fields...)).
		WithTheme(formTheme()).
		WithShowHelp(false).
		WithWidth(width).
		WithLayout(huh.LayoutStack)
	form.Init()
	return form
}

// huhFormUpdate forwards msg to form. Enter and Esc are left to the app,
// which decides whether the modal applies or closes.
func huhFormUpdate(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		if k := keyMsg.String(); k == keys.Enter || k == keys.Escape {
			return form, nil
		}
	}
	m, cmd := form.Update(msg)
	return m.(*huh.Form), cmd
}

// formTheme styles selects, multi-selects and inputs with the modal
// palette. It reads the palette on every call so theme switches apply to
// the next modal opened.
func formTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)
		accent := lipgloss.NewStyle().Foreground(ColorPrimary)
		text := lipgloss.NewStyle().Foreground(ColorText)
		muted := lipgloss.NewStyle().Foreground(ColorTextMuted)

		f := &t.Focused
		f.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		f.Card = f.Base
		f.Title = text.Bold(true)
		f.Description = muted.Italic(true)
		f.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
		f.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		f.SelectSelector = accent.SetString("> ")
		f.Option = text
		f.NextIndicator = accent.MarginLeft(1).SetString("→")
		f.PrevIndicator = accent.MarginRight(1).SetString("←")

		f.MultiSelectSelector = accent.SetString("> ")
		f.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
		f.SelectedPrefix = lipgloss.NewStyle().Foreground(ColorSecondary).SetString("[x] ")
		f.UnselectedOption = text
		f.UnselectedPrefix = muted.SetString("[ ] ")

		f.TextInput.Cursor = accent
		f.TextInput.Prompt = accent
		f.TextInput.Placeholder = muted
		f.TextInput.Text = text

		// Blurred fields keep the focused colors and lose the border
		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base
		t.Blurred.NextIndicator = lipgloss.NewStyle()
		t.Blurred.PrevIndicator = lipgloss.NewStyle()

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		return t
	})
}
