package llm

// Config is an open key/value bag of backend parameters. Backends read the
// keys they understand and ignore the rest; no schema is enforced.
type Config struct {
	params map[string]any
}

func NewConfig() *Config {
	return &Config{params: make(map[string]any)}
}

// Get returns the value stored under key, or def if the key is absent.
func (c *Config) Get(key string, def any) any {
	if v, ok := c.params[key]; ok {
		return v
	}
	return def
}

// Set stores or replaces the value under key.
func (c *Config) Set(key string, value any) {
	c.params[key] = value
}

// Map returns a copy of every parameter.
func (c *Config) Map() map[string]any {
	out := make(map[string]any, len(c.params))
	for k, v := range c.params {
		out[k] = v
	}
	return out
}

// GetString is Get with a string assertion; def wins on absence or type mismatch.
func (c *Config) GetString(key, def string) string {
	if v, ok := c.params[key].(string); ok {
		return v
	}
	return def
}

func (c *Config) GetFloat(key string, def float64) float64 {
	switch v := c.params[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

func (c *Config) GetInt(key string, def int) int {
	switch v := c.params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}
