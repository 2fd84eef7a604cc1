package mapping

import (
	"fmt"
	"strings"
)

const (
	DefaultPrefix    = "FM"
	DefaultExtension = ".dart"
)

// Override is a manually chosen rename. File names are derived from the
// identifiers when left empty.
type Override struct {
	From     string `yaml:"from"`
	To       string `yaml:"to"`
	FileFrom string `yaml:"file_from,omitempty"`
	FileTo   string `yaml:"file_to,omitempty"`
}

// Table is the versioned input to Build.
type Table struct {
	Prefix    string     `yaml:"prefix"`
	Extension string     `yaml:"extension"`
	Overrides []Override `yaml:"overrides"`
	Standard  []string   `yaml:"standard"`
}

func (t Table) extension() string {
	if t.Extension == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(t.Extension, ".") {
		return "." + t.Extension
	}
	return t.Extension
}

// StripPrefix returns the standard rename for widget: the identifier with the
// table prefix removed once.
func (t Table) StripPrefix(widget string) (string, error) {
	if !identRegex.MatchString(widget) {
		return "", fmt.Errorf("%w: %q is not a valid identifier", ErrInvalidTable, widget)
	}
	if t.Prefix == "" || !strings.HasPrefix(widget, t.Prefix) {
		return "", fmt.Errorf("%w: %q does not start with prefix %q", ErrInvalidTable, widget, t.Prefix)
	}
	name := strings.TrimPrefix(widget, t.Prefix)
	if name == "" {
		return "", fmt.Errorf("%w: %q has nothing left after removing %q", ErrInvalidTable, widget, t.Prefix)
	}
	if !identRegex.MatchString(name) {
		return "", fmt.Errorf("%w: %q without %q is %q, not a valid identifier", ErrInvalidTable, widget, t.Prefix, name)
	}
	return name, nil
}

// SpecialRenames describes the overrides for summaries and commit messages,
// e.g. "Card→Surface".
func (t Table) SpecialRenames() []string {
	out := make([]string, 0, len(t.Overrides))
	for _, o := range t.Overrides {
		from := o.From
		if t.Prefix != "" {
			from = strings.TrimPrefix(from, t.Prefix)
		}
		out = append(out, from+"→"+o.To)
	}
	return out
}

// DefaultTable is the FM-prefixed design system rename.
func DefaultTable() Table {
	return Table{
		Prefix:    DefaultPrefix,
		Extension: DefaultExtension,
		// Semantic names that avoid clashing with Material widgets.
		Overrides: []Override{
			{From: "FMCard", To: "Surface", FileFrom: "fm_card.dart", FileTo: "surface.dart"},
			{From: "FMTextField", To: "InputField", FileFrom: "fm_text_field.dart", FileTo: "input_field.dart"},
			{From: "FMSwitch", To: "Toggle", FileFrom: "fm_switch.dart", FileTo: "toggle.dart"},
			{From: "FMIconButton", To: "IconBtn", FileFrom: "fm_icon_button.dart", FileTo: "icon_btn.dart"},
			{From: "FMScaffold", To: "PageLayout", FileFrom: "fm_scaffold.dart", FileTo: "page_layout.dart"},
		},
		Standard: []string{
			"FMPrimaryButton", "FMCloseButton", "FMSelectableCard",
			"FMChip", "FMToggleChip", "FMAmountInput", "FMDatePicker",
			"FMDatePickerModal", "FMDatePickerIconButton", "FMDatePickerNavigationButton",
			"FMMonthYearPicker", "FMCalendarGrid", "FMWeekDayLabels", "FMDayCell",
			"FMScreenHeader", "FMFormHeader", "FMBottomNavBar", "FMBottomNavItem",
			"FMEmptyState", "FMLoadingIndicator", "FMLoadingDots",
			"FMNotification", "FMNotificationOverlay",
			"FMInlineSelector", "FMInlineSelectorItem",
		},
	}
}

// ConflictTable resolves the two names left clashing with Material after the
// default rename.
func ConflictTable() Table {
	return Table{
		Extension: DefaultExtension,
		Overrides: []Override{
			{From: "CloseButton", To: "CircularButton", FileFrom: "close_button.dart", FileTo: "circular_button.dart"},
			{From: "Chip", To: "SelectionChip", FileFrom: "chip.dart", FileTo: "selection_chip.dart"},
		},
	}
}
