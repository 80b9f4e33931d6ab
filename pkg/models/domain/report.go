package domain

import "time"

// Mode selects the report variant.
type Mode string

const (
	ModeFull      Mode = "full"
	ModeExecutive Mode = "executive"
)

// Report is the terminal artifact of one run: an ordered list of sections
// built once and never mutated after composition.
type Report struct {
	Title       string
	Period      TimePeriod
	Mode        Mode
	GeneratedAt time.Time
	Sources     []SourceStatus
	Sections    []Section
}

// TimePeriod is the reporting window.
type TimePeriod struct {
	Start    time.Time
	End      time.Time
	Duration int // in days
}

// Section is one logical unit of the report, in fixed order.
type Section struct {
	Title  string
	Blocks []Block
}

type BlockKind int

const (
	BlockTable BlockKind = iota
	BlockChart
	BlockText
)

// Block is one renderable element: a formatted table, a chart reference,
// or free text. Exactly one payload is set, per Kind.
type Block struct {
	Kind  BlockKind
	Table *Table
	Chart *Chart
	Text  string
}

// Table holds pre-formatted cells; absent values are already rendered as
// placeholders so renderers never need to special-case gaps.
type Table struct {
	Columns []string
	Rows    [][]string
}

type ChartKind int

const (
	ChartTrend ChartKind = iota
	ChartBars
)

// Chart carries the data a renderer needs to draw one figure. Composers
// never emit a chart with no backing data.
type Chart struct {
	Title string
	Kind  ChartKind
	Lines []ChartLine // Kind == ChartTrend
	Bars  []ChartBar  // Kind == ChartBars
}

type ChartLine struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

type ChartBar struct {
	Label string
	Value float64
}
