package collective

import (
	"fmt"
	"strings"

	"github.com/topi314/collective-tools/internal/xtime"
)

type Config struct {
	Endpoint        string         `toml:"endpoint"`
	APIToken        string         `toml:"api_token"`
	Every           xtime.Duration `toml:"every"`
	Burst           int            `toml:"burst"`
	MaxRetries      int            `toml:"max_retries"`
	EventAutoImport bool           `toml:"event_auto_import"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Endpoint: %s\n APIToken: %s\n Every: %s\n Burst: %d\n MaxRetries: %d\n EventAutoImport: %t",
		c.Endpoint,
		strings.Repeat("*", len(c.APIToken)),
		c.Every,
		c.Burst,
		c.MaxRetries,
		c.EventAutoImport,
	)
}
