package debate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	modeldebate "github.com/mirrormax/backend/internal/model/debate"
)

// SolutionFileName is the fixed, overwritten-per-run solution document.
const SolutionFileName = "solution.txt"

// Writer persists the two session artifacts into the output directory: the
// plain-text solution document and the timestamped JSON transcript.
type Writer struct {
	outputDir string
	logPath   string
}

// NewWriter fixes the artifact paths at session start; the transcript file
// name encodes the creation timestamp to avoid collisions across runs.
func NewWriter(outputDir string) *Writer {
	if outputDir == "" {
		outputDir = "logs"
	}
	stamp := time.Now().Format("20060102_150405")
	return &Writer{
		outputDir: outputDir,
		logPath:   filepath.Join(outputDir, fmt.Sprintf("mirror_max_%s.json", stamp)),
	}
}

// LogPathHint returns the transcript path before it is written, for
// inclusion in the solution document.
func (w *Writer) LogPathHint() string {
	return w.logPath
}

// WriteSolution writes the solution document, overwriting any previous run.
func (w *Writer) WriteSolution(doc string) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(w.outputDir, SolutionFileName)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteLog persists the structured session record as indented JSON.
func (w *Writer) WriteLog(debateLog *modeldebate.Log) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(debateLog, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(w.logPath, data, 0o644); err != nil {
		return "", err
	}
	return w.logPath, nil
}
