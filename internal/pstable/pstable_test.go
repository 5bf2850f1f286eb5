package pstable

import (
	"context"
	"os"
	stdruntime "runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	raw := "PPID PID COMMAND\n1 100 my command here\n"
	got := Parse(raw)
	want := []ProcessInfo{{ParentPid: 1, Pid: 100, Command: "my command here"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDiscardsHeaderAndBlankLines(t *testing.T) {
	raw := "PPID PID COMMAND\n\n  1  2  init\n\n"
	got := Parse(raw)
	want := []ProcessInfo{{ParentPid: 1, Pid: 2, Command: "init"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCollapsesCommandWhitespace(t *testing.T) {
	raw := "header\n10 20 some   spaced    command\n"
	got := Parse(raw)
	require.Len(t, got, 1)
	require.Equal(t, "some spaced command", got[0].Command)
}

func TestParseMalformedIDsUseSentinel(t *testing.T) {
	raw := "PPID PID COMMAND\nabc def bogus\n2 200 fine\n"
	got := Parse(raw)
	require.Len(t, got, 2)
	require.Equal(t, -1, got[0].ParentPid)
	require.Equal(t, -1, got[0].Pid)
	require.Equal(t, "bogus", got[0].Command)

	// Malformed rows never match a numeric parent filter.
	require.Empty(t, childrenIn(got, 100))
}

func TestChildrenFiltering(t *testing.T) {
	infos := []ProcessInfo{
		{ParentPid: 1, Pid: 50, Command: "parent"},
		{ParentPid: 50, Pid: 51, Command: "child-a"},
		{ParentPid: 50, Pid: 52, Command: "child-b"},
	}

	children := childrenIn(infos, 50)
	require.Len(t, children, 2)
	require.Equal(t, 51, children[0].Pid)
	require.Equal(t, 52, children[1].Pid)

	require.Empty(t, childrenIn(infos, 51))
}

func TestListProcessesIncludesSelf(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("process listing not supported on windows")
	}

	infos, err := ListProcesses(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, infos)

	self := os.Getpid()
	found := false
	for _, info := range infos {
		if info.Pid == self {
			found = true
			break
		}
	}
	require.True(t, found, "own pid %d missing from process table", self)
}

func TestChildrenOfSelf(t *testing.T) {
	if stdruntime.GOOS == "windows" {
		t.Skip("process listing not supported on windows")
	}

	// The test process may or may not have children; the call itself must
	// succeed and only return rows naming us as parent.
	children, err := ChildrenOf(context.Background(), os.Getpid())
	require.NoError(t, err)
	for _, child := range children {
		require.Equal(t, os.Getpid(), child.ParentPid)
	}
}
