package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	Season            int     // season of the race to analyze
	Round             int     // round of the race within the season
	Format            string  // storage format (xlsx, csv)
	OutDir            string  // directory for saved tables and charts
	CacheDir          string  // directory for cached provider responses
	LogLevel          string  // sets the log level (zap log level values)
	LogFormat         string  // text vs json
	LogFilter         string  // zapfilter rules, e.g. "*:fetch debug+:*"
	ErgastURL         string  // base URL of the Ergast compatible API
	OpenF1URL         string  // base URL of the OpenF1 API
	SectorEraStart    int     // first season processed with sector timings
	RequestsPerSecond float64 // max requests per second to the providers
	PageLimit         int     // page size for paginated provider requests
	WaitForProviders  string  // duration to wait for the providers to be reachable
)
