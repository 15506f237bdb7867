package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oshokin/ticker-display/internal/domain/ticker"
)

// OpenMeteo fetches current weather readings for the secondary screen.
type OpenMeteo struct {
	// client is the shared HTTP client.
	client *http.Client
	// latitude of the configured location.
	latitude float64
	// longitude of the configured location.
	longitude float64
	// baseURL is overridable in tests.
	baseURL string
}

// NewOpenMeteo creates a weather provider for the given location.
func NewOpenMeteo(client *http.Client, latitude, longitude float64) *OpenMeteo {
	return &OpenMeteo{
		client:    client,
		latitude:  latitude,
		longitude: longitude,
		baseURL:   "https://api.open-meteo.com",
	}
}

// Name returns the stable provider identifier.
func (p *OpenMeteo) Name() string {
	return "open-meteo"
}

// Fetch retrieves the current weather readings.
func (p *OpenMeteo) Fetch(ctx context.Context) (ticker.Metrics, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f"+
			"&current=temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code",
		p.baseURL, p.latitude, p.longitude,
	)

	var response struct {
		Current struct {
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WindSpeed   float64 `json:"wind_speed_10m"`
			WeatherCode int     `json:"weather_code"`
		} `json:"current"`
	}

	if err := getJSON(ctx, p.client, url, &response); err != nil {
		return ticker.Metrics{}, fmt.Errorf("open-meteo: %w", err)
	}

	return ticker.Metrics{
		TemperatureC: response.Current.Temperature,
		HumidityPct:  response.Current.Humidity,
		WindSpeedKmh: response.Current.WindSpeed,
		Condition:    weatherCondition(response.Current.WeatherCode),
	}, nil
}

// weatherCondition maps WMO weather codes to short display strings.
func weatherCondition(code int) string {
	switch {
	case code == 0:
		return "clear"
	case code <= 3:
		return "cloudy"
	case code <= 48:
		return "fog"
	case code <= 57:
		return "drizzle"
	case code <= 67:
		return "rain"
	case code <= 77:
		return "snow"
	case code <= 82:
		return "showers"
	case code <= 86:
		return "snow"
	default:
		return "storm"
	}
}
