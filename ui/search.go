package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/tunetui/tunetui/domain"
)

// SearchView is the main interface: a query field over a result table.
type SearchView struct {
	app         *App
	container   *tview.Flex
	inputField  *tview.InputField
	resultTable *tview.Table
	results     []domain.Song
}

// NewSearchView creates a new search view
func NewSearchView(app *App) *SearchView {
	sv := &SearchView{
		app:     app,
		results: make([]domain.Song, 0),
	}

	sv.inputField = tview.NewInputField().
		SetLabel("Search: ").
		SetFieldWidth(0).
		SetFieldBackgroundColor(tcell.ColorDefault)

	sv.inputField.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			sv.performSearch()
		}
	})

	sv.resultTable = tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	sv.resultTable.SetSelectedFunc(func(row, column int) {
		if row > 0 && row-1 < len(sv.results) {
			song := sv.results[row-1]
			go sv.app.controller.PlaySong(song)
		}
	})

	sv.setHeader()

	sv.container = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(sv.inputField, 1, 0, true).
		AddItem(sv.resultTable, 0, 1, false)

	sv.container.SetBorder(true).
		SetTitle(" Search [ENTER: Play | TAB: Results | ESC: Back] ").
		SetBorderColor(tcell.ColorGreen)

	return sv
}

// GetContainer returns the search view container
func (sv *SearchView) GetContainer() *tview.Flex {
	return sv.container
}

// Focus moves focus to the query field.
func (sv *SearchView) Focus() {
	sv.app.tviewApp.SetFocus(sv.inputField)
}

// Blur moves focus away from the query field, back to the results.
func (sv *SearchView) Blur() {
	sv.app.tviewApp.SetFocus(sv.resultTable)
}

// FocusResults moves focus to the result table.
func (sv *SearchView) FocusResults() {
	sv.app.tviewApp.SetFocus(sv.resultTable)
}

// InputFocused reports whether the query field has keyboard focus.
func (sv *SearchView) InputFocused() bool {
	return sv.app.tviewApp.GetFocus() == sv.inputField
}

// SelectFirst selects the first result row.
func (sv *SearchView) SelectFirst() {
	if len(sv.results) > 0 {
		sv.resultTable.Select(1, 0)
	}
}

// SelectLast selects the last result row.
func (sv *SearchView) SelectLast() {
	if len(sv.results) > 0 {
		sv.resultTable.Select(len(sv.results), 0)
	}
}

// performSearch executes the search query off the UI goroutine.
func (sv *SearchView) performSearch() {
	query := sv.inputField.GetText()

	go func() {
		songs, err := sv.app.controller.Search(sv.app.ctx, query)
		if err != nil {
			sv.app.log.Warn().Err(err).Str("query", query).Msg("search failed")
			sv.app.tviewApp.QueueUpdateDraw(func() {
				sv.showError(fmt.Sprintf("Search failed: %v", err))
			})
			return
		}
		if songs == nil {
			return
		}

		// sv.results is read by selection handlers on the UI goroutine, so
		// the assignment goes through the queue as well.
		sv.app.tviewApp.QueueUpdateDraw(func() {
			sv.results = songs
			sv.displayResults()
			sv.app.tviewApp.SetFocus(sv.resultTable)
		})
	}()
}

func (sv *SearchView) setHeader() {
	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Attributes(tcell.AttrBold)
	sv.resultTable.SetCell(0, 0, tview.NewTableCell("#").SetStyle(headerStyle))
	sv.resultTable.SetCell(0, 1, tview.NewTableCell("Title").SetStyle(headerStyle))
	sv.resultTable.SetCell(0, 2, tview.NewTableCell("Artist").SetStyle(headerStyle))
	sv.resultTable.SetCell(0, 3, tview.NewTableCell("Album").SetStyle(headerStyle))
	sv.resultTable.SetCell(0, 4, tview.NewTableCell("Duration").SetStyle(headerStyle))
}

// displayResults renders the search results in the table
func (sv *SearchView) displayResults() {
	sv.clearResults()

	if len(sv.results) == 0 {
		sv.resultTable.SetCell(1, 0, tview.NewTableCell("No results found").
			SetAlign(tview.AlignCenter).
			SetExpansion(5))
		return
	}

	rowStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	for i, song := range sv.results {
		row := i + 1

		sv.resultTable.SetCell(row, 0,
			tview.NewTableCell(fmt.Sprintf("%d", i+1)).
				SetStyle(rowStyle.Foreground(tcell.ColorLightGreen)).
				SetAlign(tview.AlignRight))

		sv.resultTable.SetCell(row, 1,
			tview.NewTableCell(song.Name).
				SetStyle(rowStyle).
				SetExpansion(2))

		sv.resultTable.SetCell(row, 2,
			tview.NewTableCell(song.Artist).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetMaxWidth(20))

		sv.resultTable.SetCell(row, 3,
			tview.NewTableCell(song.Album).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetMaxWidth(20))

		sv.resultTable.SetCell(row, 4,
			tview.NewTableCell(song.Duration).
				SetStyle(rowStyle.Foreground(tcell.ColorGray)).
				SetAlign(tview.AlignRight))
	}

	sv.resultTable.Select(1, 0)
	sv.resultTable.SetSelectedStyle(tcell.StyleDefault.
		Background(tcell.ColorDarkGreen).
		Foreground(tcell.ColorWhite))
}

// clearResults clears the result table
func (sv *SearchView) clearResults() {
	for i := sv.resultTable.GetRowCount() - 1; i > 0; i-- {
		sv.resultTable.RemoveRow(i)
	}
}

// showError displays an error message
func (sv *SearchView) showError(message string) {
	sv.clearResults()
	sv.resultTable.SetCell(1, 0, tview.NewTableCell(message).
		SetTextColor(tcell.ColorRed).
		SetAlign(tview.AlignCenter).
		SetExpansion(5))
}
