package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`
	}

	// Database configuration
	Database struct {
		Path string `env:"DB_PATH" envDefault:"database/brixel.db"`
	}

	// Provider configuration for comparable and trend lookups
	Providers struct {
		// Search radius for comparable sales in meters
		ComparableRadiusMeters float64 `env:"COMP_RADIUS_METERS" envDefault:"3000"`

		// Maximum number of comparables returned per lookup
		ComparableMaxResults int `env:"COMP_MAX_RESULTS" envDefault:"12"`

		// Comparables older than this many months are ignored
		ComparableMaxAgeMonths int `env:"COMP_MAX_AGE_MONTHS" envDefault:"12"`

		// Timeout for a single provider fetch (in seconds)
		TimeoutSeconds int `env:"PROVIDER_TIMEOUT" envDefault:"10"`
	}

	// ComparableIngest configuration for the sales ingestion pipeline
	ComparableIngest struct {
		// Maximum number of sales to accumulate before processing
		MaxBatchSize int `env:"INGEST_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"INGEST_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"INGEST_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"INGEST_RETRY_DELAY" envDefault:"5"`

		// Buffer size of the in-memory batch queue
		QueueSize int `env:"INGEST_QUEUE_SIZE" envDefault:"50"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
