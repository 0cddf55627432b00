package client

import "context"

// SystemConfig is the tenant branding singleton.
type SystemConfig struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Logo        string `json:"logo,omitempty"`
	Favicon     string `json:"favicon,omitempty"`
}

// ChromeApplier applies branding to the document chrome (title,
// favicon, theme). It must be idempotent; some runtimes reset chrome
// per route, so it runs again on every navigation.
type ChromeApplier func(SystemConfig)

// ConfigContext fetches the system configuration once and re-applies
// it on demand.
type ConfigContext struct {
	api    *API
	apply  ChromeApplier
	cfg    SystemConfig
	loaded bool
}

// NewConfigContext builds a ConfigContext. apply may be nil when the
// embedding view layer handles chrome itself.
func NewConfigContext(api *API, apply ChromeApplier) *ConfigContext {
	return &ConfigContext{api: api, apply: apply}
}

// Load fetches the configuration once. Later calls are no-ops so a
// navigation storm cannot refetch the singleton.
func (c *ConfigContext) Load(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	var cfg SystemConfig
	if err := c.api.Post(ctx, "/configurations/getConfigurations", nil, &cfg); err != nil {
		return err
	}
	c.cfg = cfg
	c.loaded = true
	c.Apply()
	return nil
}

// Apply re-applies the loaded configuration to the document chrome.
func (c *ConfigContext) Apply() {
	if c.loaded && c.apply != nil {
		c.apply(c.cfg)
	}
}

// Current returns the loaded configuration.
func (c *ConfigContext) Current() SystemConfig { return c.cfg }
