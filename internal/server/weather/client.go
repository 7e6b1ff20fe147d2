// Package weather talks to an OpenWeatherMap-compatible current-weather API
// and caches its answers.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/sony/gobreaker"
)

// Report is the subset of the upstream answer exposed to clients.
type Report struct {
	Area        string  `json:"area"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Description string  `json:"description"`
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
		Pressure int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// errCallerGone marks a call abandoned by its caller. The breaker does not
// count it against upstream.
var errCallerGone = errors.New("caller gave up")

// Client fetches current conditions. Calls go through a circuit breaker;
// "city not found" answers do not count as failures.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewClient builds a Client. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client, log logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	st := gobreaker.Settings{
		Name:        "WeatherAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isNotFound(err) || errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
		cb:      gobreaker.NewCircuitBreaker(st),
		timeout: timeout,
	}
}

// Current returns the current conditions for area. An unknown area yields
// common.ErrorNotFound; anything else that goes wrong, including an open
// breaker, wraps common.ErrUpstreamUnavailable.
func (c *Client) Current(ctx context.Context, area string) (*Report, error) {
	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	res, err := c.cb.Execute(func() (interface{}, error) {
		r, err := c.fetch(ctx, area)
		if err != nil && parent.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, parent.Err())
		}
		return r, err
	})
	if err != nil {
		if isNotFound(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	return res.(*Report), nil
}

func (c *Client) fetch(ctx context.Context, area string) (*Report, error) {
	q := url.Values{}
	q.Set("q", area)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carries the full request URL, appid included.
		var ue *url.Error
		if errors.As(err, &ue) {
			return nil, fmt.Errorf("%s %s/weather: %w", ue.Op, c.baseURL, ue.Err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, common.ErrorNotFound
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	r := &Report{
		Area:        body.Name,
		Temperature: body.Main.Temp,
		Humidity:    body.Main.Humidity,
		Pressure:    body.Main.Pressure,
	}
	if len(body.Weather) > 0 {
		r.Description = body.Weather[0].Description
	}
	return r, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, common.ErrorNotFound)
}
