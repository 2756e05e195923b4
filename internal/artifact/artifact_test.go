package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mcpforge/mcpforge/internal/detect"
)

func projectDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		full := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestLocateTypeScriptEntry(t *testing.T) {
	// The entry path is fixed and not verified: the build step owns it.
	art, err := Locate(projectDir(t, "ts-server"), detect.TypeScript)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Type != Entry || art.Value != filepath.Join("build", "index.js") {
		t.Fatalf("unexpected artifact %+v", art)
	}
}

func TestLocatePythonScript(t *testing.T) {
	dir := projectDir(t, "py-server")
	touch(t, dir, "server.py")

	art, err := Locate(dir, detect.Python)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Type != Script || art.Value != "server.py" {
		t.Fatalf("unexpected artifact %+v", art)
	}
}

func TestLocatePythonModuleFromDirName(t *testing.T) {
	dir := projectDir(t, "my-weather-server")

	art, err := Locate(dir, detect.Python)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Type != Module || art.Value != "my_weather_server" {
		t.Fatalf("unexpected artifact %+v", art)
	}
}

func TestLocatePythonModuleFromPyproject(t *testing.T) {
	dir := projectDir(t, "scratch")
	manifest := "[project]\nname = \"cool-tool\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write pyproject: %v", err)
	}

	art, err := Locate(dir, detect.Python)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Type != Module || art.Value != "cool_tool" {
		t.Fatalf("unexpected artifact %+v", art)
	}
}

func TestLocatePythonModuleIgnoresBrokenPyproject(t *testing.T) {
	dir := projectDir(t, "fallback-proj")
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte("not toml ["), 0o644); err != nil {
		t.Fatalf("write pyproject: %v", err)
	}

	art, err := Locate(dir, detect.Python)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Value != "fallback_proj" {
		t.Fatalf("expected directory-name fallback, got %+v", art)
	}
}

func TestLocateArchivePrefersBundledJar(t *testing.T) {
	dir := projectDir(t, "jv")
	touch(t, dir,
		filepath.Join("target", "jv-1.0.0.jar"),
		filepath.Join("target", "jv-1.0.0-jar-with-dependencies.jar"),
	)

	art, err := Locate(dir, detect.Java)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	want := filepath.Join("target", "jv-1.0.0-jar-with-dependencies.jar")
	if art.Type != Archive || art.Value != want {
		t.Fatalf("artifact = %+v, want %s", art, want)
	}
}

func TestLocateArchivePrefersShadowOverBare(t *testing.T) {
	dir := projectDir(t, "jv")
	touch(t, dir,
		filepath.Join("build", "libs", "jv-1.0.0.jar"),
		filepath.Join("build", "libs", "jv-1.0.0-all.jar"),
	)

	art, err := Locate(dir, detect.Java)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Value != filepath.Join("build", "libs", "jv-1.0.0-all.jar") {
		t.Fatalf("unexpected artifact %+v", art)
	}
}

func TestLocateArchiveMavenOutputWins(t *testing.T) {
	dir := projectDir(t, "jv")
	touch(t, dir,
		filepath.Join("target", "from-maven.jar"),
		filepath.Join("build", "libs", "from-gradle.jar"),
	)

	art, err := Locate(dir, detect.Java)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if art.Value != filepath.Join("target", "from-maven.jar") {
		t.Fatalf("expected maven output to win, got %+v", art)
	}
}

func TestLocateArchiveOutputDirWithoutJar(t *testing.T) {
	dir := projectDir(t, "jv")
	touch(t, dir, filepath.Join("target", "classes.txt"))

	_, err := Locate(dir, detect.Java)
	if !errors.Is(err, ErrNoArchive) {
		t.Fatalf("expected ErrNoArchive, got %v", err)
	}
}

func TestLocateArchiveMissingOutputDir(t *testing.T) {
	_, err := Locate(projectDir(t, "jv"), detect.Java)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocateIdempotent(t *testing.T) {
	dir := projectDir(t, "jv")
	touch(t, dir,
		filepath.Join("target", "a-1.0.0.jar"),
		filepath.Join("target", "b-1.0.0.jar"),
	)

	first, err := Locate(dir, detect.Java)
	if err != nil {
		t.Fatalf("first Locate: %v", err)
	}
	second, err := Locate(dir, detect.Java)
	if err != nil {
		t.Fatalf("second Locate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Locate not idempotent: %+v vs %+v", first, second)
	}
}
