package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	callsMu sync.Mutex
	calls   = make(map[string]int)
)

// Filename returns the snapshot file for the next call made by the test
// Snapshots live in testdata/ and are numbered per test, starting at 0.
func Filename(t *testing.T) string {
	callsMu.Lock()
	defer callsMu.Unlock()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	call := calls[name]
	calls[name] = call + 1

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", name, call))
}

// ValidateSnapshot compares obj, as indented JSON, with its snapshot file
// A missing snapshot is written instead and the test passes.
func ValidateSnapshot(t *testing.T, obj interface{}, msgAndArgs ...interface{}) bool {
	t.Helper()

	filename := Filename(t)
	objJSON, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
	}

	expects, err := os.ReadFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			t.Fatalf("could not read snapshot: %v", err)
		}

		if err := create(filename, objJSON); err != nil {
			t.Fatalf("could not write snapshot: %v", err)
		}

		return true
	}

	if !assert.Equal(t, strings.TrimSpace(string(expects)), strings.TrimSpace(string(objJSON)), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
		return false
	}

	return true
}

func create(filename string, objJSON []byte) error {
	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, append(objJSON, '\n'), 0644)
}
