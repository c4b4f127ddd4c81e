package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server base URL of the remote document store
//	-d queue database file path
//	-c/-config json file path with configs
//	-hash-key content hash key
//	-request-timeout gateway request timeout (e.g., "30s", "1m")
//	-max-retries per-operation retry budget
//	-backoff-base exponential backoff base delay
//	-backoff-max exponential backoff cap
//	-breaker-threshold consecutive failures before the drain cycle degrades
//	-dispatch-workers parallel in-flight gateway calls
//	-debounce trailing-edge debounce window for change triggers
//	-sync-interval background sync job period
func ParseFlags() *StructuredConfig {
	var serverURL string
	var queueDBPath string
	var jsonConfigPath string
	var hashKey string
	var requestTimeout time.Duration
	var maxRetries int
	var backoffBase time.Duration
	var backoffMax time.Duration
	var breakerThreshold int
	var dispatchWorkers int
	var debounceDelay time.Duration
	var syncInterval time.Duration

	flag.StringVar(&serverURL, "a", "", "Remote document store base URL")
	flag.StringVar(&queueDBPath, "d", "", "Queue database file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&hashKey, "hash-key", "", "Content hash key")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Gateway request timeout (e.g., 30s, 1m)")
	flag.IntVar(&maxRetries, "max-retries", 0, "Per-operation retry budget")
	flag.DurationVar(&backoffBase, "backoff-base", 0, "Exponential backoff base delay")
	flag.DurationVar(&backoffMax, "backoff-max", 0, "Exponential backoff cap")
	flag.IntVar(&breakerThreshold, "breaker-threshold", 0, "Consecutive failures before the drain cycle degrades")
	flag.IntVar(&dispatchWorkers, "dispatch-workers", 0, "Parallel in-flight gateway calls")
	flag.DurationVar(&debounceDelay, "debounce", 0, "Debounce window for change triggers")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync job period")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			HashKey: hashKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: queueDBPath,
			},
		},
		Adapter: Adapter{
			HTTPAddress:    serverURL,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			MaxRetries:       maxRetries,
			BackoffBase:      backoffBase,
			BackoffMax:       backoffMax,
			BreakerThreshold: breakerThreshold,
			DispatchWorkers:  dispatchWorkers,
			DebounceDelay:    debounceDelay,
		},
		Workers:      Workers{SyncInterval: syncInterval},
		JSONFilePath: jsonConfigPath,
	}
}
