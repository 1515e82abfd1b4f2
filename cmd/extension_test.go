package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRunExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("extension script requires a posix shell")
	}
	dir := t.TempDir()
	script := `#!/bin/sh
echo "args=$*"
echo "` + EnvBondsFile + `=$` + EnvBondsFile + `"
echo "` + EnvVerbose + `=$` + EnvVerbose + `"
exit 3
`
	if err := os.WriteFile(filepath.Join(dir, "krd-hello"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	bonds := filepath.Join(dir, "random.jsonl")
	setFlag(t, bondsFile, bonds)
	setFlag(t, Verbose, true)

	var out bytes.Buffer
	setStdout(t, &out)

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found {
		t.Fatalf("RunExtension(hello) not found")
	}
	if code != 3 {
		t.Errorf("RunExtension(hello) exit code = %d, want 3", code)
	}
	for _, want := range []string{"args=a b", EnvBondsFile + "=" + bonds, EnvVerbose + "=true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("extension output does not contain %q:\n%s", want, out.String())
		}
	}

	if found, _ := RunExtension("does-not-exist", nil); found {
		t.Errorf("RunExtension(does-not-exist) found an extension")
	}
}
