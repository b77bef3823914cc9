// File path: internal/pipeline/artifacts.go
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// writeArtifact persists one phase output as indented JSON under the run
// directory. The write goes through a temp file and rename so a crashed
// run never leaves a truncated artifact behind.
func writeArtifact(root, submissionID, relPath string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", relPath, err)
	}
	return writeRawArtifact(root, submissionID, relPath, data)
}

func writeRawArtifact(root, submissionID, relPath string, data []byte) error {
	path := filepath.Join(root, submissionID, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", relPath, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize artifact %s: %w", relPath, err)
	}
	return nil
}

// writeStateArtifact records the final successful snapshot at the run root.
func writeStateArtifact(root string, st State) error {
	return writeArtifact(root, st.SubmissionID, "pipeline-state.json", st)
}

type errorArtifact struct {
	SubmissionID string    `json:"submissionId"`
	Phase        string    `json:"phase"`
	Error        string    `json:"error"`
	Metrics      Metrics   `json:"metrics"`
	FailedAt     time.Time `json:"failedAt"`
}

// writeErrorArtifact records why and where a run failed.
func writeErrorArtifact(root string, st State, phase string) error {
	return writeArtifact(root, st.SubmissionID, "pipeline-error.json", errorArtifact{
		SubmissionID: st.SubmissionID,
		Phase:        phase,
		Error:        st.Error,
		Metrics:      st.Metrics,
		FailedAt:     time.Now().UTC(),
	})
}
