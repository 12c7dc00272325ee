package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/defuse-box/internal/config"
	"github.com/oshokin/defuse-box/internal/domain/bomb"
)

// Operator identifies the machine and user that ran the session.
type Operator struct {
	// Hostname is the machine name.
	Hostname string
	// Username is the system user.
	Username string
}

// Report summarizes one session.
type Report struct {
	// SessionID is the ULID assigned at session start.
	SessionID string
	// Backend is the hardware backend name.
	Backend string
	// Operator is who ran the session, if known.
	Operator *Operator
	// StartedAt is the wall-clock session start.
	StartedAt time.Time
	// FinishedAt is the wall-clock session end.
	FinishedAt time.Time
	// Snapshot is the final engine status.
	Snapshot *bomb.Snapshot
	// Actuated tells whether the terminal sequence ran.
	Actuated bool
}

// errSnapshotRequired is returned when a report has no snapshot.
var errSnapshotRequired = errors.New("report snapshot is required")

// DetectOperator gathers host and user information.
func DetectOperator() (*Operator, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("hostname: %w", err)
	}

	currentUser, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}

	return &Operator{
		Hostname: hostname,
		Username: currentUser.Username,
	}, nil
}

// Marshal encodes the report as indented JSON.
func (r *Report) Marshal() ([]byte, error) {
	message, err := r.toStruct()
	if err != nil {
		return nil, err
	}

	marshalOptions := protojson.MarshalOptions{
		Multiline:       true,
		Indent:          "  ",
		EmitUnpopulated: true,
	}

	data, err := marshalOptions.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	return data, nil
}

// Write encodes the report to w followed by a newline.
func Write(w io.Writer, r *Report) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteFile encodes the report to path.
func WriteFile(path string, r *Report) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if err = os.WriteFile(filepath.Clean(path), append(data, '\n'), config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	return nil
}

// toStruct converts the report into a protobuf Struct.
func (r *Report) toStruct() (*structpb.Struct, error) {
	if r.Snapshot == nil {
		return nil, errSnapshotRequired
	}

	puzzles := make([]any, 0, len(r.Snapshot.Puzzles))
	for _, p := range r.Snapshot.Puzzles {
		puzzles = append(puzzles, map[string]any{
			"name":         p.Name,
			"kind":         p.Kind,
			"solved":       p.Solved,
			"solved_at_ms": p.SolvedAtMs,
		})
	}

	fields := map[string]any{
		"session_id":        r.SessionID,
		"backend":           r.Backend,
		"outcome":           r.Snapshot.Outcome.String(),
		"started_at":        r.StartedAt.UTC().Format(time.RFC3339Nano),
		"finished_at":       r.FinishedAt.UTC().Format(time.RFC3339Nano),
		"duration":          r.FinishedAt.Sub(r.StartedAt).String(),
		"deadline_seconds":  r.Snapshot.DeadlineSeconds,
		"elapsed_seconds":   r.Snapshot.ElapsedSeconds,
		"remaining_seconds": r.Snapshot.RemainingSeconds,
		"finished_at_ms":    r.Snapshot.FinishedAtMs,
		"actuated":          r.Actuated,
		"puzzles":           puzzles,
	}

	if r.Operator != nil {
		fields["operator"] = map[string]any{
			"hostname": r.Operator.Hostname,
			"username": r.Operator.Username,
		}
	}

	message, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	return message, nil
}
