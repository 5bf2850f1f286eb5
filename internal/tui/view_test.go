package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Paintersrp/procwatch/internal/pstable"
)

func sampleRows() []pstable.ProcessInfo {
	return []pstable.ProcessInfo{
		{ParentPid: 1, Pid: 100, Command: "serverd"},
		{ParentPid: 100, Pid: 101, Command: "worker"},
	}
}

func TestRenderPopulatesTable(t *testing.T) {
	v := NewView(Options{})
	v.setRows(sampleRows())
	v.render()

	require.Equal(t, "PPID", v.table.GetCell(0, 0).Text)
	require.Equal(t, "1", v.table.GetCell(1, 0).Text)
	require.Equal(t, "100", v.table.GetCell(1, 1).Text)
	require.Equal(t, "serverd", v.table.GetCell(1, 2).Text)
	require.Equal(t, "worker", v.table.GetCell(2, 2).Text)
}

func TestSetRowsSortsByPid(t *testing.T) {
	v := NewView(Options{})
	v.setRows([]pstable.ProcessInfo{
		{ParentPid: 1, Pid: 300, Command: "late"},
		{ParentPid: 1, Pid: 200, Command: "early"},
	})

	v.mu.RLock()
	defer v.mu.RUnlock()
	require.Equal(t, 200, v.rows[0].Pid)
	require.Equal(t, 300, v.rows[1].Pid)
}

func TestSelectedProcess(t *testing.T) {
	v := NewView(Options{})
	v.setRows(sampleRows())
	v.render()

	v.table.Select(2, 0)
	info, ok := v.selectedProcess()
	require.True(t, ok)
	require.Equal(t, 101, info.Pid)

	v.table.Select(0, 0)
	_, ok = v.selectedProcess()
	require.False(t, ok, "header row is not a process")
}
