package config

import (
	"strings"

	"github.com/spf13/viper"
)

// NewViper loads config.json when present and falls back to defaults plus
// environment overrides (BOOKING_CHECKIN_RADIUS_M style) so the service can
// boot in local and containerised setups alike.
func NewViper() *viper.Viper {
	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	config.AddConfigPath("./../../")

	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	setDefaults(config)

	if err := config.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(err)
		}
	}

	return config
}

func setDefaults(config *viper.Viper) {
	config.SetDefault("app.name", "BOOKING_SERVICE")
	config.SetDefault("web.port", 8080)
	config.SetDefault("web.prefork", false)
	config.SetDefault("log.level", "DEBUG")

	config.SetDefault("booking.checkin_radius_m", 50)
	config.SetDefault("booking.checkin_open_before_min", 30)
	config.SetDefault("booking.cancel_cutoff_hours", 2)
	config.SetDefault("booking.confirm_window_hours", 24)
	config.SetDefault("booking.call_hold_cap_min", 120)
	config.SetDefault("booking.ring_timeout_sec", 60)
	config.SetDefault("booking.commission_rate_pct", 20)
	config.SetDefault("booking.sweep_batch_size", 100)
	config.SetDefault("booking.sweep_interval_sec", 60)
}
