// Package integration runs the gv binary against temporary sites.
package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
)

var (
	gvBinary     string
	gvBinaryOnce sync.Once
	gvBinaryErr  error
)

// getGVBinary builds gv once per test run and returns its path.
func getGVBinary(t *testing.T) string {
	t.Helper()
	gvBinaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			gvBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "gv-test-*")
		if err != nil {
			gvBinaryErr = err
			return
		}
		gvBinary = filepath.Join(tmpDir, "gv")

		cmd := exec.Command("go", "build", "-o", gvBinary, "./cmd/gv")
		cmd.Dir = moduleRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			gvBinaryErr = errors.New(err.Error() + ": " + string(out))
		}
	})
	if gvBinaryErr != nil {
		t.Fatalf("building gv: %v", gvBinaryErr)
	}
	return gvBinary
}

// runGV runs gv in site with an isolated global config. It returns stdout
// and the exit code.
func runGV(t *testing.T, site string, args ...string) (string, int) {
	t.Helper()
	cmd := exec.Command(getGVBinary(t), args...)
	cmd.Dir = site
	home := t.TempDir()
	cmd.Env = append(os.Environ(),
		"GEOVIEW_ROOT="+site,
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
	)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode()
	}
	if err != nil {
		t.Fatalf("running gv %v: %v", args, err)
	}
	return string(out), 0
}

// setupSite initializes a site with three related articles.
func setupSite(t *testing.T) string {
	t.Helper()
	site := t.TempDir()
	if out, code := runGV(t, site, "init"); code != 0 {
		t.Fatalf("gv init exited %d: %s", code, out)
	}

	articles := []string{
		`{"id":"urban-heat","title":"Urban Heat Islands","excerpt":"Cities run hot.","content":"# Heat","category":"Geography","topic_category":"environment","tags":["climate"],"geo_location":{"lat":40.7,"lng":-74.0,"name":"New York"},"time_period":{"start":1950,"era":"Modern"},"related_posts":["river-deltas","silk-roads"],"references":[{"id":1,"authors":"Oke, T. R.","year":1982,"title":"The energetic basis of the urban heat island","publication":"Quarterly Journal of the Royal Meteorological Society","doi":"10.1002/qj.49710845502"}]}`,
		`{"id":"river-deltas","title":"Sinking River Deltas","excerpt":"Deltas subside.","content":"Body","category":"Geography","topic_category":"environment","related_posts":["urban-heat","ghost"]}`,
		`{"id":"silk-roads","title":"The Silk Roads","excerpt":"Trade across Eurasia.","content":"Body","category":"History","topic_category":"history","tags":["trade"],"time_period":{"start":200,"end":1450,"era":"Medieval"}}`,
	}
	for _, a := range articles {
		path := filepath.Join(t.TempDir(), "article.json")
		if err := os.WriteFile(path, []byte(a), 0o644); err != nil {
			t.Fatal(err)
		}
		if out, code := runGV(t, site, "add", "--file", path); code != 0 {
			t.Fatalf("gv add exited %d: %s", code, out)
		}
	}
	return site
}

func TestInitTwiceFails(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "init")
	if code != 1 {
		t.Fatalf("second init exited %d, want 1: %s", code, out)
	}
	if !strings.Contains(out, "already contains") {
		t.Errorf("output = %s", out)
	}
}

func TestNoSite(t *testing.T) {
	_, code := runGV(t, t.TempDir(), "list")
	if code != 2 {
		t.Errorf("list outside a site exited %d, want 2", code)
	}
}

func TestListAndGet(t *testing.T) {
	site := setupSite(t)

	out, code := runGV(t, site, "list", "--category", "History")
	if code != 0 {
		t.Fatalf("list exited %d: %s", code, out)
	}
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("parsing list: %v\n%s", err, out)
	}
	if len(list) != 1 || list[0].ID != "silk-roads" {
		t.Errorf("History list = %+v", list)
	}

	if _, code := runGV(t, site, "list", "--category", "Weather"); code != 1 {
		t.Errorf("unknown category exited %d, want 1", code)
	}

	out, code = runGV(t, site, "get", "urban-heat")
	if code != 0 {
		t.Fatalf("get exited %d: %s", code, out)
	}
	if !strings.Contains(out, `"Urban Heat Islands"`) {
		t.Errorf("get output = %s", out)
	}
	if _, code := runGV(t, site, "get", "nope"); code != 4 {
		t.Errorf("get missing exited %d, want 4", code)
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "add", "--id", "urban-heat", "--title", "Again")
	if code != 1 {
		t.Errorf("duplicate add exited %d, want 1: %s", code, out)
	}
}

func TestSearch(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "search", "trade")
	if code != 0 {
		t.Fatalf("search exited %d: %s", code, out)
	}
	if !strings.Contains(out, "silk-roads") || strings.Contains(out, "urban-heat") {
		t.Errorf("search output = %s", out)
	}
}

func TestGraphDropsDanglingRelations(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "graph", "--rank")
	if code != 0 {
		t.Fatalf("graph exited %d: %s", code, out)
	}
	var g struct {
		Nodes []struct {
			ID          string  `json:"id"`
			Connections int     `json:"connections"`
			Size        float64 `json:"val"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
			Target string `json:"target"`
		} `json:"edges"`
		MostConnected string `json:"most_connected"`
	}
	if err := json.Unmarshal([]byte(out), &g); err != nil {
		t.Fatalf("parsing graph: %v\n%s", err, out)
	}
	if len(g.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Edges) != 3 {
		t.Errorf("edges = %+v, want 3 (ghost dropped)", g.Edges)
	}
	for _, e := range g.Edges {
		if e.Target == "ghost" {
			t.Errorf("dangling edge rendered: %+v", e)
		}
	}
	if g.MostConnected != "urban-heat" {
		t.Errorf("most connected = %q, want urban-heat", g.MostConnected)
	}
}

func TestCheckReportsDangling(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "check")
	if code != 0 {
		t.Fatalf("check exited %d, want 0 for warnings only: %s", code, out)
	}
	var res struct {
		Status string `json:"status"`
		Issues []struct {
			Type   string `json:"type"`
			Target string `json:"target"`
		} `json:"issues"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("parsing check: %v\n%s", err, out)
	}
	if res.Status != "warnings" || len(res.Issues) != 1 || res.Issues[0].Target != "ghost" {
		t.Errorf("check = %+v", res)
	}
}

func TestTimelineAndMarkers(t *testing.T) {
	site := setupSite(t)

	out, code := runGV(t, site, "timeline")
	if code != 0 {
		t.Fatalf("timeline exited %d: %s", code, out)
	}
	if strings.Index(out, "silk-roads") > strings.Index(out, "urban-heat") {
		t.Errorf("timeline not ordered by start: %s", out)
	}

	out, code = runGV(t, site, "markers")
	if code != 0 {
		t.Fatalf("markers exited %d: %s", code, out)
	}
	if !strings.Contains(out, "urban-heat") || strings.Contains(out, "silk-roads") {
		t.Errorf("markers output = %s", out)
	}
}

func TestCiteExport(t *testing.T) {
	site := setupSite(t)
	bib := filepath.Join(t.TempDir(), "refs.bib")

	out, code := runGV(t, site, "cite", "export", "-o", bib, "--append")
	if code != 0 {
		t.Fatalf("cite export exited %d: %s", code, out)
	}
	data, err := os.ReadFile(bib)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "@article{Oke1982,") {
		t.Errorf("bib = %s", data)
	}

	if _, code := runGV(t, site, "cite", "export", "-o", bib, "--append"); code != 0 {
		t.Fatalf("second append exited %d", code)
	}
	data, _ = os.ReadFile(bib)
	if n := strings.Count(string(data), "@article{"); n != 1 {
		t.Errorf("entries after second append = %d, want 1", n)
	}
}

func TestCiteAdd(t *testing.T) {
	site := setupSite(t)
	out, code := runGV(t, site, "cite", "add", "silk-roads", "--title", "The Silk Roads: A New History", "--authors", "Frankopan, Peter", "--year", "2015", "--publication", "Bloomsbury Publishing")
	if code != 0 {
		t.Fatalf("cite add exited %d: %s", code, out)
	}
	var ref struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &ref); err != nil || ref.ID != 1 {
		t.Errorf("cite add = %s (%v)", out, err)
	}

	out, _ = runGV(t, site, "cite", "export", "--article", "silk-roads")
	if !strings.Contains(out, "@book{Frankopan2015,") {
		t.Errorf("export after add = %s", out)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	site := setupSite(t)
	if out, code := runGV(t, site, "config", "dimmed-opacity", "0.4"); code != 0 {
		t.Fatalf("config set exited %d: %s", code, out)
	}
	out, code := runGV(t, site, "--human", "config", "dimmed-opacity")
	if code != 0 || strings.TrimSpace(out) != "0.4" {
		t.Errorf("config get = %q (exit %d)", out, code)
	}
	if _, code := runGV(t, site, "config", "dimmed-opacity", "2"); code != 2 {
		t.Errorf("invalid opacity exited %d, want 2", code)
	}
}

func TestVizWritesPage(t *testing.T) {
	site := setupSite(t)
	page := filepath.Join(t.TempDir(), "map.html")
	if out, code := runGV(t, site, "viz", "-o", page); code != 0 {
		t.Fatalf("viz exited %d: %s", code, out)
	}
	data, err := os.ReadFile(page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "urban-heat") {
		t.Error("page does not embed the graph")
	}
}
