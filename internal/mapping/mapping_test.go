package mapping

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCamelToSnake(t *testing.T) {
	tests := map[string]string{
		"FMPrimaryButton":              "fm_primary_button",
		"FMDatePicker":                 "fm_date_picker",
		"FMDatePickerNavigationButton": "fm_date_picker_navigation_button",
		"FMCard":                       "fm_card",
		"Surface":                      "surface",
		"IconBtn":                      "icon_btn",
		"HTTPServer":                   "http_server",
		"Chip":                         "chip",
		"Widget2Go":                    "widget2_go",
	}
	for in, want := range tests {
		assert.Equal(t, want, CamelToSnake(in), in)
	}
}

func TestCaseRoundTrip(t *testing.T) {
	table := DefaultTable()
	for _, widget := range table.Standard {
		newName, err := table.StripPrefix(widget)
		require.NoError(t, err)

		// Acronyms come back title-cased, so compare boundaries case-insensitively.
		assert.True(t, strings.EqualFold(widget, SnakeToCamel(CamelToSnake(widget))), widget)
		assert.Equal(t, newName, SnakeToCamel(CamelToSnake(newName)), newName)
	}
}

func TestBuildDefaultTable(t *testing.T) {
	m, err := Build(DefaultTable())
	require.NoError(t, err)

	assert.Len(t, m.Symbols, 30)
	assert.Len(t, m.Files, 30)

	// Overrides come first and keep their chosen names.
	assert.Equal(t, Pair{Old: "FMCard", New: "Surface"}, m.Symbols[0])
	assert.Equal(t, Pair{Old: "fm_card.dart", New: "surface.dart"}, m.Files[0])

	for old, want := range map[string]string{
		"FMChip":                 "Chip",
		"FMToggleChip":           "ToggleChip",
		"FMDatePickerIconButton": "DatePickerIconButton",
		"FMIconButton":           "IconBtn",
	} {
		got, ok := m.Symbols.Lookup(old)
		require.True(t, ok, old)
		assert.Equal(t, want, got, old)
	}

	got, ok := m.Files.Lookup("fm_date_picker_icon_button.dart")
	require.True(t, ok)
	assert.Equal(t, "date_picker_icon_button.dart", got)
}

func TestBuildIsIdempotent(t *testing.T) {
	a, err := Build(DefaultTable())
	require.NoError(t, err)
	b, err := Build(DefaultTable())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildOverridePrecedence(t *testing.T) {
	m, err := Build(Table{
		Prefix:    "FM",
		Overrides: []Override{{From: "FMCard", To: "Surface"}},
		Standard:  []string{"FMCard", "FMChip"},
	})
	require.NoError(t, err)

	assert.Equal(t, Mapping{{Old: "FMCard", New: "Surface"}, {Old: "FMChip", New: "Chip"}}, m.Symbols)
	assert.Equal(t, Mapping{{Old: "fm_card.dart", New: "surface.dart"}, {Old: "fm_chip.dart", New: "chip.dart"}}, m.Files)
}

func TestBuildRejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		want  error
	}{
		{
			name:  "missing prefix",
			table: Table{Prefix: "FM", Standard: []string{"Chip"}},
			want:  ErrInvalidTable,
		},
		{
			name:  "prefix only",
			table: Table{Prefix: "FM", Standard: []string{"FM"}},
			want:  ErrInvalidTable,
		},
		{
			name: "file collision",
			table: Table{Overrides: []Override{
				{From: "Alpha", To: "Beta"},
				{From: "Gamma", To: "Delta", FileTo: "beta.dart"},
			}},
			want: ErrMappingCollision,
		},
		{
			name: "replacement rewritten by later entry",
			table: Table{Overrides: []Override{
				{From: "Alpha", To: "Beta"},
				{From: "Beta", To: "Gamma"},
			}},
			want: ErrMappingCollision,
		},
		{
			name:  "directory in file name",
			table: Table{Overrides: []Override{{From: "Alpha", To: "Beta", FileTo: "x/beta.dart"}}},
			want:  ErrInvalidTable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.table)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestStripPrefixErrors(t *testing.T) {
	table := Table{Prefix: "FM"}

	_, err := table.StripPrefix("FM")
	assert.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), "nothing left")

	_, err = table.StripPrefix("FM2x")
	assert.ErrorIs(t, err, ErrInvalidTable)
	assert.Contains(t, err.Error(), `"2x", not a valid identifier`)
	assert.NotContains(t, err.Error(), "nothing left")

	name, err := table.StripPrefix("FMChip")
	assert.NoError(t, err)
	assert.Equal(t, "Chip", name)
}

func TestConflictTable(t *testing.T) {
	table := ConflictTable()
	m, err := Build(table)
	require.NoError(t, err)

	assert.Equal(t, Mapping{
		{Old: "CloseButton", New: "CircularButton"},
		{Old: "Chip", New: "SelectionChip"},
	}, m.Symbols)
	assert.Equal(t, []string{"CloseButton→CircularButton", "Chip→SelectionChip"}, table.SpecialRenames())
}

func TestMappingWithout(t *testing.T) {
	m := Mapping{{Old: "a", New: "b"}, {Old: "c", New: "d"}}
	assert.Equal(t, Mapping{{Old: "c", New: "d"}}, m.Without("a"))
	assert.Len(t, m, 2)
}
