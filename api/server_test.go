package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashboard/datasource"
	"dashboard/models"
	"dashboard/settings"
	"dashboard/store"
	"dashboard/todo"
)

type fakeSource struct {
	periods []models.ForecastPeriod
	err     error
}

func (f *fakeSource) FetchPeriods(ctx context.Context, n int) ([]models.ForecastPeriod, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n > len(f.periods) {
		n = len(f.periods)
	}
	return append([]models.ForecastPeriod(nil), f.periods[:n]...), nil
}

func (f *fakeSource) Name() string { return "fake" }

func newTestServer(t *testing.T, src datasource.ForecastSource) *httptest.Server {
	t.Helper()
	if src == nil {
		src = &fakeSource{}
	}
	mem := store.NewMemStore()
	s := NewServer(todo.NewRepository(mem), settings.NewRepository(mem), src, 3, 0)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func do(t *testing.T, method, url string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func listTasks(t *testing.T, base string) []models.Task {
	t.Helper()
	resp, err := http.Get(base + "/api/tasks")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Tasks []models.Task `json:"tasks"`
		Count int           `json:"count"`
	}
	decode(t, resp, &body)
	return body.Tasks
}

func TestAddAndListTasks(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "  finish the memo  "})
	var added struct {
		Count int `json:"count"`
	}
	decode(t, resp, &added)
	if added.Count != 1 {
		t.Errorf("count = %d, want 1", added.Count)
	}

	tasks := listTasks(t, ts.URL)
	if len(tasks) != 1 || tasks[0].Text != "finish the memo" || tasks[0].Done {
		t.Errorf("unexpected tasks: %+v", tasks)
	}
}

func TestAddBlankTaskLeavesCountUnchanged(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "   "})
	var added struct {
		Count int `json:"count"`
	}
	decode(t, resp, &added)
	if resp.StatusCode != http.StatusOK || added.Count != 0 {
		t.Errorf("status %d count %d, want 200 and 0", resp.StatusCode, added.Count)
	}
}

func TestToggleAndDeleteTask(t *testing.T) {
	ts := newTestServer(t, nil)
	postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "a"}).Body.Close()
	postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "b"}).Body.Close()

	resp := do(t, http.MethodPost, ts.URL+"/api/tasks/0/toggle", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}
	if tasks := listTasks(t, ts.URL); !tasks[0].Done || tasks[1].Done {
		t.Errorf("toggle applied to wrong task: %+v", tasks)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/tasks/0", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if tasks := listTasks(t, ts.URL); len(tasks) != 1 || tasks[0].Text != "b" {
		t.Errorf("unexpected tasks after delete: %+v", tasks)
	}
}

func TestTaskIndexOutOfRangeIs404(t *testing.T) {
	ts := newTestServer(t, nil)
	postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "only"}).Body.Close()

	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/api/tasks/5/toggle"},
		{http.MethodDelete, "/api/tasks/5"},
	} {
		resp := do(t, req.method, ts.URL+req.path, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s %s: status = %d, want 404", req.method, req.path, resp.StatusCode)
		}
	}
	if tasks := listTasks(t, ts.URL); len(tasks) != 1 {
		t.Errorf("failed operations mutated the list: %+v", tasks)
	}
}

func TestClearCompletedKeepsOpenTasks(t *testing.T) {
	ts := newTestServer(t, nil)
	for _, text := range []string{"keep", "drop"} {
		postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": text}).Body.Close()
	}
	do(t, http.MethodPost, ts.URL+"/api/tasks/1/toggle", nil).Body.Close()

	resp := do(t, http.MethodPost, ts.URL+"/api/tasks/clear?completed=1", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}

	tasks := listTasks(t, ts.URL)
	if len(tasks) != 1 || tasks[0].Text != "keep" {
		t.Errorf("unexpected survivors: %+v", tasks)
	}
}

func TestClearAllEmptiesList(t *testing.T) {
	ts := newTestServer(t, nil)
	postJSON(t, ts.URL+"/api/tasks", map[string]string{"text": "a"}).Body.Close()

	do(t, http.MethodPost, ts.URL+"/api/tasks/clear", nil).Body.Close()
	if tasks := listTasks(t, ts.URL); len(tasks) != 0 {
		t.Errorf("list not empty: %+v", tasks)
	}
}

func TestVibeGetAndPut(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/vibe")
	if err != nil {
		t.Fatal(err)
	}
	var vibe struct {
		Vibe string `json:"vibe"`
	}
	decode(t, resp, &vibe)
	if vibe.Vibe != settings.Vibes[0] {
		t.Errorf("default vibe = %q", vibe.Vibe)
	}

	body, _ := json.Marshal(map[string]string{"vibe": "CEO mode"})
	resp = do(t, http.MethodPut, ts.URL+"/api/vibe", body)
	decode(t, resp, &vibe)
	if vibe.Vibe != "CEO mode" {
		t.Errorf("vibe after PUT = %q", vibe.Vibe)
	}
}

func TestPutInvalidVibeIs400(t *testing.T) {
	ts := newTestServer(t, nil)

	body, _ := json.Marshal(map[string]string{"vibe": "not-a-real-vibe"})
	resp := do(t, http.MethodPut, ts.URL+"/api/vibe", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/api/vibe")
	if err != nil {
		t.Fatal(err)
	}
	var vibe struct {
		Vibe string `json:"vibe"`
	}
	decode(t, resp, &vibe)
	if vibe.Vibe != settings.Vibes[0] {
		t.Errorf("rejected PUT changed the vibe to %q", vibe.Vibe)
	}
}

func TestVibesEnumeration(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/vibes")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Vibes   []string `json:"vibes"`
		Default string   `json:"default"`
	}
	decode(t, resp, &body)
	if len(body.Vibes) != len(settings.Vibes) || body.Default != settings.Vibes[0] {
		t.Errorf("unexpected enumeration: %+v", body)
	}
}

func TestWeatherReturnsClassifiedPeriods(t *testing.T) {
	temp := 95
	src := &fakeSource{periods: []models.ForecastPeriod{
		{Name: "Today", Temperature: &temp, TemperatureUnit: "F", ShortForecast: "Sunny"},
		{Name: "Tonight", ShortForecast: "Chance Showers"},
	}}
	ts := newTestServer(t, src)

	resp, err := http.Get(ts.URL + "/api/weather?periods=2")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Periods []models.ForecastPeriod `json:"periods"`
		Source  string                  `json:"source"`
	}
	decode(t, resp, &body)

	if len(body.Periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(body.Periods))
	}
	if body.Periods[0].Icon != "🔥" {
		t.Errorf("hot sunny icon = %q, want heat", body.Periods[0].Icon)
	}
	if body.Periods[1].Icon != "🌧️" {
		t.Errorf("showers icon = %q, want rain", body.Periods[1].Icon)
	}
	if body.Source != "fake" {
		t.Errorf("source = %q", body.Source)
	}
}

func TestWeatherUnavailableIs503(t *testing.T) {
	src := &fakeSource{err: fmt.Errorf("%w: upstream 500", datasource.ErrLocationUnavailable)}
	ts := newTestServer(t, src)

	resp, err := http.Get(ts.URL + "/api/weather")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Error string `json:"error"`
	}
	decode(t, resp, &body)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if body.Error != "weather unavailable" {
		t.Errorf("error = %q", body.Error)
	}

	// The rest of the dashboard keeps working.
	tasksResp, err := http.Get(ts.URL + "/api/tasks")
	if err != nil {
		t.Fatal(err)
	}
	tasksResp.Body.Close()
	if tasksResp.StatusCode != http.StatusOK {
		t.Errorf("tasks status = %d while weather is down", tasksResp.StatusCode)
	}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	var body struct {
		Status string `json:"status"`
	}
	decode(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q", body.Status)
	}
}
