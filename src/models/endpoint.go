package models

// EndpointConfig is one configured webhook destination for a provider.
// Name is unique within the provider and acts as the document key.
type EndpointConfig struct {
	Name            string `json:"name"`
	URL             string `json:"url"`
	APIKey          string `json:"key"`
	Enabled         bool   `json:"enabled"`
	NotifyOnMoneyIn bool   `json:"notifyOnMoneyIn"`
	NotifyOnMoneyOut bool  `json:"notifyOnMoneyOut"`
	RetryOnFailure  bool   `json:"retryOnFailure"`
	MaxRetries      int    `json:"maxRetries"`
	RetryDelayMs    int64  `json:"retryDelayMs"`
	Conditions      string `json:"conditions"`
}

const (
	DefaultMaxRetries   = 3
	DefaultRetryDelayMs = 3000
)

// ApplyDefaults fills retry settings left at their zero value.
func (c *EndpointConfig) ApplyDefaults() {
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryDelayMs <= 0 {
		c.RetryDelayMs = DefaultRetryDelayMs
	}
}

// WantsDirection reports whether the endpoint is configured to receive
// transactions of the given direction.
func (c EndpointConfig) WantsDirection(d Direction) bool {
	if d == MoneyIn {
		return c.NotifyOnMoneyIn
	}
	return c.NotifyOnMoneyOut
}
