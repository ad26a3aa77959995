package notify

// Configuration captures the settings for emailing failed audit reports.
type Configuration struct {
	Enabled             bool     `mapstructure:"enabled"`
	SMTPHost            string   `mapstructure:"smtp_host"`
	SMTPPort            int      `mapstructure:"smtp_port"`
	Recipients          []string `mapstructure:"recipients"`
	Sender              string   `mapstructure:"sender"`
	PreprodDomainMarker string   `mapstructure:"preprod_domain_marker"`
}

const (
	defaultSMTPHostConstant            = "mailhost.domain.com"
	defaultSMTPPortConstant            = 25
	defaultPreprodDomainMarkerConstant = "preprod.domain.com"
)

// DefaultConfiguration returns the baseline notification settings. Delivery is disabled until
// recipients are configured.
func DefaultConfiguration() Configuration {
	return Configuration{
		Enabled:             false,
		SMTPHost:            defaultSMTPHostConstant,
		SMTPPort:            defaultSMTPPortConstant,
		Recipients:          nil,
		Sender:              "",
		PreprodDomainMarker: defaultPreprodDomainMarkerConstant,
	}
}

// DefaultConfigurationValues returns viper defaults for the notification section rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		prefix + ".enabled":               defaults.Enabled,
		prefix + ".smtp_host":             defaults.SMTPHost,
		prefix + ".smtp_port":             defaults.SMTPPort,
		prefix + ".recipients":            []string{},
		prefix + ".sender":                defaults.Sender,
		prefix + ".preprod_domain_marker": defaults.PreprodDomainMarker,
	}
}
