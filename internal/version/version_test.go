package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
	require.Contains(t, Full(), Commit)
	require.Equal(t, []any{"version", Version, "commit", Commit}, Fields())
}

// TestVersionCommand verifies the attached subcommand prints the full version.
func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var (
		out  bytes.Buffer
		root = &cobra.Command{Use: "defuse-box"}
	)

	AttachCobraVersionCommand(root)
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Equal(t, Full()+"\n", out.String())
}
