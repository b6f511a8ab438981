package geo

import (
	"context"

	"googlemaps.github.io/maps"
)

// Geocoder wraps the Google Maps client for reverse geocoding booking
// venues. Callers treat it as best effort and keep going on error.
type Geocoder struct {
	Client *maps.Client
}

func NewGeocoder(apiKey string) (*Geocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Geocoder{Client: client}, nil
}

func (g *Geocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	results, err := g.Client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}
	return results[0].FormattedAddress, nil
}
