package driven

// ConfigStore provides access to application configuration: provider
// credentials and pipeline tunables (cluster threshold, capture region).
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if key doesn't exist or isn't a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if key doesn't exist or isn't an integer.
	GetInt(key string) int

	// GetFloat retrieves a floating-point configuration value.
	// Returns 0 if key doesn't exist or isn't a number.
	GetFloat(key string) float64

	// GetBool retrieves a boolean configuration value.
	// Returns false if key doesn't exist or isn't a boolean.
	GetBool(key string) bool

	// Set stores a configuration value.
	// The value is persisted immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}

// Well-known configuration keys.
const (
	// ConfigKeyAPIKey is the chat/embedding provider API key.
	ConfigKeyAPIKey = "provider.api_key"

	// ConfigKeyClusterThreshold is the spatial clustering distance
	// threshold in page-space units.
	ConfigKeyClusterThreshold = "index.cluster_threshold"

	// ConfigKeyCaptureWidth is the capture region width in page units.
	ConfigKeyCaptureWidth = "capture.width"

	// ConfigKeyCaptureHeight is the capture region height in page units.
	ConfigKeyCaptureHeight = "capture.height"
)
