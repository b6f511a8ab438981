package config

import (
	"booking-service/src/pkg/geo"

	"github.com/spf13/viper"
)

// NewGeoService builds the reverse-geocoding client. Returns nil when no API
// key is configured so booking creation simply skips address resolution.
func NewGeoService(viper *viper.Viper) (*geo.Geocoder, error) {
	apiKey := viper.GetString("thirdparty.google.api_key")
	if apiKey == "" {
		return nil, nil
	}
	return geo.NewGeocoder(apiKey)
}
