//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	svc          *service
	client       *http.Client
	response     *http.Response
	responseBody []byte
}

func newTestContext() *testContext {
	return &testContext{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// reset clears response state and stops the scenario's service.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}
	tc.response = nil
	tc.responseBody = nil

	tc.svc.stop()
	tc.svc = nil
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^the quote store is empty$`, tc.theQuoteStoreIsEmpty)
	ctx.Step(`^the quote store contains:$`, tc.theQuoteStoreContains)
	ctx.Step(`^the quote store is unavailable$`, tc.theQuoteStoreIsUnavailable)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^I send a (\w+) request to "([^"]*)"$`, tc.iSendRequest)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response body should be:$`, tc.theResponseBodyShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, tc.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be null$`, tc.theResponseFieldShouldBeNull)
	ctx.Step(`^the response header "([^"]*)" should not be empty$`, tc.theResponseHeaderShouldNotBeEmpty)
	ctx.Step(`^the selection counter for "([^"]*)" should be (\d+)$`, tc.theSelectionCounterShouldBe)
}

func (tc *testContext) theServiceIsRunning() error {
	svc, err := startService()
	if err != nil {
		return err
	}
	tc.svc = svc

	resp, err := tc.client.Get(svc.URL() + "/-/live")
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", svc.URL(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

func (tc *testContext) theQuoteStoreIsEmpty() error {
	return tc.svc.deleteAll()
}

// theQuoteStoreContains loads a table with the header
// | quote | movie | character | poster_url | character_url |.
func (tc *testContext) theQuoteStoreContains(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return errors.New("table needs a header row and at least one quote")
	}

	columns := make(map[string]int, len(table.Rows[0].Cells))
	for i, cell := range table.Rows[0].Cells {
		columns[cell.Value] = i
	}

	for _, row := range table.Rows[1:] {
		values := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			values[i] = c.Value
		}

		cell := func(name string) string {
			if i, ok := columns[name]; ok && i < len(values) {
				return values[i]
			}
			return ""
		}

		err := tc.svc.insert(
			cell("quote"),
			cell("movie"),
			cell("character"),
			cell("poster_url"),
			cell("character_url"),
		)
		if err != nil {
			return fmt.Errorf("insert quote: %w", err)
		}
	}

	return nil
}

func (tc *testContext) theQuoteStoreIsUnavailable() error {
	return tc.svc.store.Close()
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.iSendRequest(http.MethodGet, path)
}

func (tc *testContext) iSendRequest(method, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, tc.svc.URL()+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if tc.responseBody == nil {
		return errors.New("no response body")
	}

	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

// theResponseBodyShouldBe compares JSON documents, ignoring formatting.
func (tc *testContext) theResponseBodyShouldBe(doc *godog.DocString) error {
	var want, got any

	if err := json.Unmarshal([]byte(doc.Content), &want); err != nil {
		return fmt.Errorf("expected body is not JSON: %w", err)
	}

	if err := json.Unmarshal(tc.responseBody, &got); err != nil {
		return fmt.Errorf("response body is not JSON: %w.\nBody: %s", err, tc.responseBody)
	}

	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)

	if string(wantJSON) != string(gotJSON) {
		return fmt.Errorf("expected body %s, got %s", wantJSON, gotJSON)
	}

	return nil
}

func (tc *testContext) field(name string) (any, bool, error) {
	var body map[string]any
	if err := json.Unmarshal(tc.responseBody, &body); err != nil {
		return nil, false, fmt.Errorf("response body is not a JSON object: %w", err)
	}

	v, ok := body[name]

	return v, ok, nil
}

func (tc *testContext) theResponseFieldShouldBe(name, expected string) error {
	v, ok, err := tc.field(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("field %q missing.\nBody: %s", name, tc.responseBody)
	}

	if got := fmt.Sprint(v); got != expected {
		return fmt.Errorf("field %q: expected %q, got %q", name, expected, got)
	}

	return nil
}

func (tc *testContext) theResponseFieldShouldBeNull(name string) error {
	v, ok, err := tc.field(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("field %q missing, want explicit null.\nBody: %s", name, tc.responseBody)
	}
	if v != nil {
		return fmt.Errorf("field %q: expected null, got %v", name, v)
	}

	return nil
}

func (tc *testContext) theResponseHeaderShouldNotBeEmpty(name string) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.Header.Get(name) == "" {
		return fmt.Errorf("header %q is empty", name)
	}

	return nil
}

// theSelectionCounterShouldBe reads the counter series from a /-/metrics body.
func (tc *testContext) theSelectionCounterShouldBe(outcome string, expected int) error {
	line := fmt.Sprintf("moviequotes_selections_total{outcome=%q} %d", outcome, expected)

	if !strings.Contains(string(tc.responseBody), line) {
		return fmt.Errorf("metrics do not contain %q.\nBody: %s", line, tc.responseBody)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
