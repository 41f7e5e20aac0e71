package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the state view
	// stacks its panels instead of placing them side by side.
	LayoutCompactWidth = 100
)

// Sizes of fixed UI elements.
const (
	// headerHeight covers the status line and the command bar.
	headerHeight = 2

	// footerHeight covers the error or input line.
	footerHeight = 1

	// helpWidth is the width of the help modal.
	helpWidth = 44

	// diffContext is the number of unchanged lines kept around each change
	// in the history diff.
	diffContext = 2

	// historyListHeight caps the rows the history list takes above the diff.
	historyListHeight = 10
)
