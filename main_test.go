package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func appcastDoc(version, downloadURL string) string {
	return fmt.Sprintf(`<rss xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle">
<channel><item>
<title>Release %s</title>
<enclosure url=%q sparkle:version=%q/>
</item></channel></rss>`, version, downloadURL, version)
}

func newFeedServer(t *testing.T, version string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	mux.HandleFunc("/appcast.xml", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, appcastDoc(version, srv.URL+"/app-"+version+".exe"))
	})
	mux.HandleFunc("/app-"+version+".exe", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "installer bytes")
	})
	return srv
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunVersionFlag(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if strings.TrimSpace(stdout) != version {
		t.Errorf("stdout = %q, want version string", stdout)
	}
}

func TestRunExtendedHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "--helpextended")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.Contains(stdout, "quickstart") {
		t.Errorf("stdout missing quickstart doc: %q", stdout)
	}
}

func TestRunRequiresFeedAndVersion(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "required") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunMissingConfigFile(t *testing.T) {
	code, _, stderr := runCLI(t, "--config", filepath.Join(t.TempDir(), "nope.json"))
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "read config") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunFindsUpdate(t *testing.T) {
	srv := newFeedServer(t, "9.9")
	state := filepath.Join(t.TempDir(), "state.json")

	code, stdout, stderr := runCLI(t,
		"--appcast", srv.URL+"/appcast.xml",
		"--app-version", "1.0",
		"--state", state,
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "Update available: 9.9") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(state); err != nil {
		t.Errorf("state file not written: %v", err)
	}
}

func TestRunUpToDateJSON(t *testing.T) {
	srv := newFeedServer(t, "1.0")
	state := filepath.Join(t.TempDir(), "state.json")

	code, stdout, stderr := runCLI(t,
		"--appcast", srv.URL+"/appcast.xml",
		"--app-version", "1.0",
		"--state", state,
		"--json",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	var outcome struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal([]byte(stdout), &outcome); err != nil {
		t.Fatalf("stdout not JSON: %q: %v", stdout, err)
	}
	if outcome.Status != "up-to-date" {
		t.Errorf("status = %q", outcome.Status)
	}
}

func TestRunDownloadsArtifact(t *testing.T) {
	srv := newFeedServer(t, "2.0")
	tmp := t.TempDir()
	state := filepath.Join(tmp, "state.json")
	dest := filepath.Join(tmp, "downloads")

	code, stdout, stderr := runCLI(t,
		"--appcast", srv.URL+"/appcast.xml",
		"--app-version", "1.0",
		"--state", state,
		"--download",
		"--dest-dir", dest,
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	saved := filepath.Join(dest, "app-2.0.exe")
	data, err := os.ReadFile(saved)
	if err != nil {
		t.Fatalf("artifact not saved: %v", err)
	}
	if string(data) != "installer bytes" {
		t.Errorf("artifact = %q", data)
	}
	if !strings.Contains(stdout, saved) {
		t.Errorf("stdout = %q, want saved path", stdout)
	}
}

func TestRunSkipThenManual(t *testing.T) {
	srv := newFeedServer(t, "2.0")
	state := filepath.Join(t.TempDir(), "state.json")
	base := []string{
		"--appcast", srv.URL + "/appcast.xml",
		"--app-version", "1.0",
		"--state", state,
	}

	if code, _, stderr := runCLI(t, append(base, "--skip", "2.0")...); code != 0 {
		t.Fatalf("skip exit code = %d, stderr = %q", code, stderr)
	}

	_, stdout, _ := runCLI(t, base...)
	if !strings.Contains(stdout, "up to date") {
		t.Errorf("scheduled check after skip: stdout = %q", stdout)
	}

	_, stdout, _ = runCLI(t, append(base, "--manual")...)
	if !strings.Contains(stdout, "Update available: 2.0") {
		t.Errorf("manual check should ignore skip: stdout = %q", stdout)
	}
}

func TestRunEnvOverride(t *testing.T) {
	srv := newFeedServer(t, "2.0")
	state := filepath.Join(t.TempDir(), "state.json")
	t.Setenv("UPDRIFT_APPCAST_URL", srv.URL+"/appcast.xml")
	t.Setenv("UPDRIFT_APP_VERSION", "1.0")
	t.Setenv("UPDRIFT_STATE_PATH", state)

	code, stdout, stderr := runCLI(t)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "Update available: 2.0") {
		t.Errorf("stdout = %q", stdout)
	}
}
