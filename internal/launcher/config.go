package launcher

import "strconv"

const (
	// DefaultURL is the course page scraped when no URL is given.
	DefaultURL = "https://dev.1c-bitrix.ru/learning/course/index.php?COURSE_ID=43&INDEX=Y"

	// DefaultOutput is the default output directory.
	DefaultOutput = "./data"

	// DefaultTimeout is the default inter-request delay in seconds.
	DefaultTimeout = 0.5
)

// Config is the effective configuration of a single run. The zero
// Limit means that the number of downloaded pages is unbounded.
type Config struct {
	// URL is the course page to scrape.
	URL string

	// Output is the directory where the child saves pages.
	Output string

	// Limit caps the number of pages to download; zero means no cap.
	Limit int64

	// Timeout is the inter-request delay in seconds.
	Timeout float64
}

// NewConfig creates a [Config] with the default values.
func NewConfig() *Config {
	return &Config{
		URL:     DefaultURL,
		Output:  DefaultOutput,
		Limit:   0,
		Timeout: DefaultTimeout,
	}
}

// ChildArgs returns the arguments forwarded to the parser script. The
// `--limit` flag is only present when the limit is set.
func (c *Config) ChildArgs() []string {
	args := []string{
		"--url", c.URL,
		"--output", c.Output,
		"--timeout", FormatTimeout(c.Timeout),
	}
	if c.Limit > 0 {
		args = append(args, "--limit", strconv.FormatInt(c.Limit, 10))
	}
	return args
}

// LimitString returns the limit formatted for display.
func (c *Config) LimitString() string {
	if c.Limit <= 0 {
		return "unbounded"
	}
	return strconv.FormatInt(c.Limit, 10)
}

// FormatTimeout formats a timeout such that, e.g., 0.5 stays `0.5`.
func FormatTimeout(timeout float64) string {
	return strconv.FormatFloat(timeout, 'g', -1, 64)
}
