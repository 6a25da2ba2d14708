package cache

// PrintKeyOpts holds the options that affect a rendered print.
type PrintKeyOpts struct {
	DPI      int    `json:"dpi"`
	Format   string `json:"format"`
	Template string `json:"template"`
	Crop     string `json:"crop"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PrintKey returns the key for an input with the given content hash.
	PrintKey(inputHash string, opts PrintKeyOpts) string
}

// DefaultKeyer hashes every key component into a fixed-length key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PrintKey returns "print:<sha256>" over the input hash and options.
func (DefaultKeyer) PrintKey(inputHash string, opts PrintKeyOpts) string {
	return hashKey("print", inputHash, opts)
}

var _ Keyer = DefaultKeyer{}
