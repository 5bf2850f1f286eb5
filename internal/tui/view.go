// Package tui provides an interactive process-table browser backed by tview.
package tui

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/procwatch/internal/log"
	"github.com/Paintersrp/procwatch/internal/pstable"
	"github.com/Paintersrp/procwatch/internal/pstree"
)

const (
	tableTitle      = "Processes"
	defaultInterval = 2 * time.Second
)

// Options configures view behaviour.
type Options struct {
	Interval time.Duration
}

// View coordinates the interactive process-table interface.
type View struct {
	app      *tview.Application
	table    *tview.Table
	status   *tview.TextView
	interval time.Duration
	logger   zerolog.Logger

	mu   sync.RWMutex
	rows []pstable.ProcessInfo
}

// NewView constructs a view configured with the supplied options.
func NewView(opts Options) *View {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}

	app := tview.NewApplication()
	table := tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	table.SetBorder(true).SetTitle(tableTitle)

	status := tview.NewTextView().SetDynamicColors(true)
	status.SetText("[yellow]q[-] quit  [yellow]k[-] kill  [yellow]t[-] kill tree  [yellow]r[-] refresh")

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(table, 0, 1, true).
		AddItem(status, 1, 0, false)

	v := &View{
		app:      app,
		table:    table,
		status:   status,
		interval: interval,
		logger:   log.WithComponent("tui"),
	}

	app.SetRoot(flex, true)
	table.SetInputCapture(v.handleKey)
	return v
}

// Run drives the interface until the user quits or ctx is cancelled.
func (v *View) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initial snapshot is rendered directly; the application loop is not
	// consuming queued updates yet.
	infos, err := pstable.ListProcesses(ctx)
	if err != nil {
		return err
	}
	v.setRows(infos)
	v.render()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return v.app.Run()
	})
	g.Go(func() error {
		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				v.app.Stop()
				return nil
			case <-ticker.C:
				v.refresh(ctx)
			}
		}
	})
	return g.Wait()
}

func (v *View) refresh(ctx context.Context) {
	infos, err := pstable.ListProcesses(ctx)
	if err != nil {
		v.logger.Warn().Err(err).Msg("refresh process table")
		return
	}
	v.setRows(infos)
	v.app.QueueUpdateDraw(v.render)
}

func (v *View) setRows(infos []pstable.ProcessInfo) {
	sort.Slice(infos, func(i, j int) bool { return infos[i].Pid < infos[j].Pid })
	v.mu.Lock()
	v.rows = infos
	v.mu.Unlock()
}

func (v *View) render() {
	v.mu.RLock()
	rows := v.rows
	v.mu.RUnlock()

	v.table.Clear()
	headers := []string{"PPID", "PID", "COMMAND"}
	for col, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false)
		if col == 2 {
			cell.SetExpansion(1)
		}
		v.table.SetCell(0, col, cell)
	}

	for i, info := range rows {
		v.table.SetCell(i+1, 0, tview.NewTableCell(fmt.Sprintf("%d", info.ParentPid)))
		v.table.SetCell(i+1, 1, tview.NewTableCell(fmt.Sprintf("%d", info.Pid)))
		v.table.SetCell(i+1, 2, tview.NewTableCell(info.Command).SetExpansion(1))
	}

	if row, _ := v.table.GetSelection(); row > len(rows) {
		v.table.Select(len(rows), 0)
	}
}

func (v *View) handleKey(ev *tcell.EventKey) *tcell.EventKey {
	if ev.Key() == tcell.KeyEscape {
		v.app.Stop()
		return nil
	}
	switch ev.Rune() {
	case 'q':
		v.app.Stop()
		return nil
	case 'r':
		go v.refresh(context.Background())
		return nil
	case 'k':
		v.killSelected(false)
		return nil
	case 't':
		v.killSelected(true)
		return nil
	}
	return ev
}

func (v *View) killSelected(tree bool) {
	info, ok := v.selectedProcess()
	if !ok {
		return
	}
	go func() {
		if err := pstree.KillPid(info.Pid, tree); err != nil {
			v.logger.Warn().Err(err).Int("pid", info.Pid).Bool("tree", tree).Msg("kill process")
		}
		v.refresh(context.Background())
	}()
}

func (v *View) selectedProcess() (pstable.ProcessInfo, bool) {
	row, _ := v.table.GetSelection()
	v.mu.RLock()
	defer v.mu.RUnlock()
	if row < 1 || row > len(v.rows) {
		return pstable.ProcessInfo{}, false
	}
	return v.rows[row-1], true
}
