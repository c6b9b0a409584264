package internal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/odpf/jobpack/config"
)

// LoadConfig loads the client configuration and validates it
func LoadConfig(configFilePath string) (*config.ClientConfig, error) {
	conf, err := config.LoadClientConfig(configFilePath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(conf); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	return conf, nil
}

// RequireValues fails naming every flag whose value is still empty after
// merging flags with configuration
func RequireValues(values map[string]string) error {
	var missing []string
	for name, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, fmt.Sprintf("%q", name))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
}
