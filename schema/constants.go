package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the summary output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// ChartKind represents the scope of a series and selects its canvas size tier.
	ChartKind string

	// ImageFormat represents the encoding of rendered charts.
	ImageFormat string

	// TrendDirection represents the direction of a smoothed trend.
	TrendDirection string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All chart kinds, from widest to smallest canvas.
const (
	CompleteKind ChartKind = "complete"
	YearKind     ChartKind = "year"
	MonthKind    ChartKind = "month"
)

// All image formats supported.
const (
	PNGFormat ImageFormat = "png" // default
	SVGFormat ImageFormat = "svg"
)

// All trend directions.
const (
	TrendDown TrendDirection = "Down"
	TrendUp   TrendDirection = "Up"
	TrendFlat TrendDirection = "Flat"
)

// Layouts for timestamps and chart titles.
const (
	TimestampLayout = "2006-01-02 15:04:05"
	DateLayout      = "2006-01-02"
)

// MaxAxisTicks is the number of labeled ticks on the x axis.
const MaxAxisTicks = 20

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidChartKinds lists all valid chart kinds.
var ValidChartKinds = map[ChartKind]struct{}{
	CompleteKind: {},
	YearKind:     {},
	MonthKind:    {},
}

// ValidImageFormats lists all valid image formats.
var ValidImageFormats = map[ImageFormat]struct{}{
	PNGFormat: {},
	SVGFormat: {},
}

// Size returns the canvas width and height in pixels for the kind.
func (k ChartKind) Size() (width, height int) {
	switch k {
	case CompleteKind:
		return 4000, 900
	case YearKind:
		return 2000, 800
	default:
		return 800, 600
	}
}
