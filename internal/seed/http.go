package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

// Put performs a PUT request with JSON body
func (c *HTTPClient) Put(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, url, body)
}

func (c *HTTPClient) send(ctx context.Context, method, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// installCatalogs installs each user's catalog before records flow.
func installCatalogs(ctx context.Context, config *Config, users []User) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/catalog"

	for _, user := range users {
		resp, err := client.Put(ctx, url, user.Catalog)
		if err != nil {
			return fmt.Errorf("install catalog for %s: %w", user.ID, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("read catalog response for %s: %w", user.ID, err)
		}
		if resp.StatusCode != StatusOK {
			return fmt.Errorf("install catalog for %s: status %d: %s", user.ID, resp.StatusCode, string(body))
		}
	}
	return nil
}

// submitRecords submits records concurrently using worker pools
func submitRecords(ctx context.Context, config *Config, users []User, stats *Stats) error {
	var records []Record
	for _, user := range users {
		records = append(records, user.Records...)
	}
	log.Printf("📤 Submitting %d records with %d workers...", len(records), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/records"

	// Counters for statistics
	var (
		successful int64
		duplicate  int64
		failed     int64
		submitted  int64
	)

	recordChan := make(chan Record, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for record := range recordChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleRecord(ctx, client, url, record)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
				}
			}
		}()
	}

	go func() {
		defer close(recordChan)
		for _, record := range records {
			select {
			case <-ctx.Done():
				return
			case recordChan <- record:
			}
		}
	}()

	wg.Wait()

	stats.RecordsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RecordsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RecordsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.RecordsFailed = int(atomic.LoadInt64(&failed))

	log.Printf(`✅ Record submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
`, stats.RecordsSuccessful, stats.RecordsDuplicate, stats.RecordsFailed)

	return nil
}

// submitSingleRecord submits a single record and returns the result
func submitSingleRecord(ctx context.Context, client *HTTPClient, url string, record Record) string {
	resp, err := client.Post(ctx, url, record)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		return "success"
	case StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate"
	default:
		return "failed"
	}
}

// fetchCorrelations retrieves the correlation report for one user.
func fetchCorrelations(ctx context.Context, client *HTTPClient, baseURL, userID string) (CorrelationReport, error) {
	url := baseURL + "/correlations?user=" + userID + "&metric=" + metricEnergy

	resp, err := client.Get(ctx, url)
	if err != nil {
		return CorrelationReport{}, fmt.Errorf("fetch correlations: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return CorrelationReport{}, fmt.Errorf("read correlations: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return CorrelationReport{}, fmt.Errorf("fetch correlations: status %d: %s", resp.StatusCode, string(body))
	}

	var report CorrelationReport
	if err := json.Unmarshal(body, &report); err != nil {
		return CorrelationReport{}, fmt.Errorf("decode correlations: %w", err)
	}
	return report, nil
}

// fetchStreaks retrieves all streak summaries for one user.
func fetchStreaks(ctx context.Context, client *HTTPClient, baseURL, userID string) ([]StreakEntry, error) {
	url := baseURL + "/streaks?user=" + userID

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch streaks: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read streaks: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("fetch streaks: status %d: %s", resp.StatusCode, string(body))
	}

	var entries []StreakEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode streaks: %w", err)
	}
	return entries, nil
}
