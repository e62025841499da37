package mobi

import "github.com/JVHannila/MoBI-project/pkg/mobi/montage"

// DefaultLineFreq is the mains frequency hint recorded on every exported
// recording. The acquisition sites run on 50 Hz power.
const DefaultLineFreq = 50.0

type Config struct {
	Loader      Loader
	Writer      Writer
	Logger      Logger
	Catalog     Catalog
	CatalogPath string
	LineFreq    float64
	// Preset overrides the embedded-metadata montage for every recording,
	// e.g. a cap layout built once and shared across a batch.
	Preset *montage.Montage
	// DryRun stops the batch after the prepare phase. Every source file is
	// still located, loaded and assembled, but nothing is written.
	DryRun bool
	// Anonymizer computes the minimum date-shift offset for a set of
	// assembled recordings. Offset calculation is an external concern;
	// when nil and the manifest requests anonymization, the batch
	// proceeds unanonymized with a warning.
	Anonymizer func(recs []*RecordingItem) (int, error)
}

type Option func(*Config)

func WithLoader(loader Loader) Option {
	return func(c *Config) {
		c.Loader = loader
	}
}

func WithWriter(writer Writer) Option {
	return func(c *Config) {
		c.Writer = writer
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithCatalog(cat Catalog) Option {
	return func(c *Config) {
		c.Catalog = cat
	}
}

func WithCatalogPath(path string) Option {
	return func(c *Config) {
		c.CatalogPath = path
	}
}

func WithLineFreq(hz float64) Option {
	return func(c *Config) {
		c.LineFreq = hz
	}
}

func WithPresetMontage(m *montage.Montage) Option {
	return func(c *Config) {
		c.Preset = m
	}
}

func WithDryRun(enabled bool) Option {
	return func(c *Config) {
		c.DryRun = enabled
	}
}

func WithAnonymizer(fn func(recs []*RecordingItem) (int, error)) Option {
	return func(c *Config) {
		c.Anonymizer = fn
	}
}

func defaultConfig() *Config {
	return &Config{
		LineFreq: DefaultLineFreq,
	}
}
