package sequence

// Strategy defines the code generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPDATE ... RETURNING for every code.
	// Guarantees sequential codes without gaps.
	// Slower, suitable for accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of codes in memory.
	// Much faster, but may produce gaps if the application restarts.
	StrategyCached
)

// Options configures code generation.
type Options struct {
	// Strategy to use for code generation
	Strategy Strategy
	// RangeSize is the number of codes to allocate at once in Cached
	// strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds code issuance configuration.
type Config struct {
	// Prefix added to all codes (e.g., "IMP", "STK")
	Prefix string

	// IncludeYear adds the year to the code
	IncludeYear bool

	// PadWidth is the minimum counter width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
