package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/export"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/Veraticus/vendor-dash/internal/query"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	err   error
	txns  []model.Transaction
	calls int
}

func (f *fakeBackend) StoresOverview(context.Context) (*model.StoresOverview, error) {
	return &model.StoresOverview{}, nil
}

func (f *fakeBackend) StoreTransactions(ctx context.Context, _ string) ([]model.Transaction, error) {
	f.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.txns, f.err
}

func (f *fakeBackend) StoreReport(context.Context, string, string, string) (*model.StoreReport, error) {
	return &model.StoreReport{}, nil
}

func (f *fakeBackend) Transaction(context.Context, string) (*model.Transaction, error) {
	return nil, common.ErrNotFound
}

type memoryLog struct {
	records []model.ExportRecord
	mu      sync.Mutex
}

func (l *memoryLog) RecordExport(_ context.Context, rec *model.ExportRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, *rec)
	return nil
}

func (l *memoryLog) ListExports(context.Context, int) ([]model.ExportRecord, error) {
	return l.records, nil
}

type failingLog struct{}

func (failingLog) RecordExport(context.Context, *model.ExportRecord) error {
	return errors.New("database is locked")
}

func (failingLog) ListExports(context.Context, int) ([]model.ExportRecord, error) {
	return nil, nil
}

func thirteen() []model.Transaction {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	txns := make([]model.Transaction, 13)
	for i := range txns {
		store := "Central"
		if i%2 == 1 {
			store = "North"
		}
		n := i
		txns[i] = model.Transaction{
			TransactionID: fmt.Sprintf("T%02d", i),
			StoreNameFlat: store,
			ManagerName:   "Asha",
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
			TotalItems:    &n,
		}
	}
	return txns
}

func newTestModel(t *testing.T, backend *fakeBackend, opts ...Option) Model {
	t.Helper()
	cfg := defaultConfig()
	cfg.Location = time.UTC
	cfg.Backend = backend
	cfg.StoreID = "s1"
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newModel(ctx, cancel, cfg)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, backend *fakeBackend, opts ...Option) Model {
	t.Helper()
	m := newTestModel(t, backend, opts...)
	m, _ = update(t, m, m.fetch()())
	return m
}

func TestModel_StartsLoading(t *testing.T) {
	m := newTestModel(t, &fakeBackend{txns: thirteen()})
	assert.Equal(t, StateLoading, m.State())
	assert.Contains(t, m.View(), "Loading transactions")
}

func TestModel_LoadedShowsFirstPage(t *testing.T) {
	m := loaded(t, &fakeBackend{txns: thirteen()})

	assert.Equal(t, StateLoaded, m.State())
	assert.Len(t, m.result.Page.Items, 6)
	assert.Equal(t, 3, m.result.Page.TotalPages)
	assert.Equal(t, "T12", m.result.Page.Items[0].TransactionID)
	assert.Contains(t, m.View(), "Page 1 of 3 · 13 transactions")
}

func TestModel_StaleResponseIsDropped(t *testing.T) {
	backend := &fakeBackend{txns: thirteen()}
	m := loaded(t, backend)

	stale := m.fetch()
	m, _ = update(t, m, keyRunes("r"))
	assert.Equal(t, StateLoading, m.State())

	backend.txns = thirteen()[:2]
	m, _ = update(t, m, stale())
	assert.Equal(t, StateLoading, m.State())
	assert.Len(t, m.transactions, 13)

	m, _ = update(t, m, m.fetch()())
	assert.Equal(t, StateLoaded, m.State())
	assert.Len(t, m.transactions, 2)
}

func TestModel_ErrorKeepsPreviousData(t *testing.T) {
	backend := &fakeBackend{txns: thirteen()}
	m := loaded(t, backend)

	m, _ = update(t, m, keyRunes("r"))
	backend.err = &common.APIError{Message: "Server busy"}
	m, cmd := update(t, m, m.fetch()())

	assert.Equal(t, StateError, m.State())
	assert.NotNil(t, cmd)
	assert.Len(t, m.transactions, 13)
	assert.Contains(t, m.View(), "Server busy")
	assert.Contains(t, m.View(), "T12")
}

func TestModel_FirstLoadError(t *testing.T) {
	m := loaded(t, &fakeBackend{err: fmt.Errorf("%w: dial", common.ErrNetworkFailure)})

	assert.Equal(t, StateError, m.State())
	assert.Contains(t, m.View(), "Press r to retry")
	assert.Contains(t, m.View(), "Network error")
}

func TestModel_PagingAndCriteriaReset(t *testing.T) {
	m := loaded(t, &fakeBackend{txns: thirteen()})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, m.list.Page)
	assert.Len(t, m.result.Page.Items, 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, m.list.Page)

	m, _ = update(t, m, keyRunes("s"))
	assert.Equal(t, query.SortOldest, m.list.Criteria.Sort)
	assert.Equal(t, 1, m.list.Page)
	assert.Equal(t, "T00", m.result.Page.Items[0].TransactionID)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, keyRunes("p"))
	assert.Equal(t, 10, m.list.Criteria.PageSize)
	assert.Equal(t, 1, m.list.Page)
	assert.Equal(t, 2, m.result.Page.TotalPages)
}

func TestModel_RefetchWithFewerRowsReturnsToFirstPage(t *testing.T) {
	backend := &fakeBackend{txns: thirteen()}
	m := loaded(t, backend)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 3, m.list.Page)

	m, _ = update(t, m, keyRunes("r"))
	backend.txns = thirteen()[:4]
	m, _ = update(t, m, m.fetch()())

	assert.Equal(t, 1, m.list.Page)
	assert.Equal(t, 1, m.result.Page.TotalPages)
	assert.Len(t, m.result.Page.Items, 4)
	assert.Contains(t, m.View(), "Page 1 of 1 · 4 transactions")
}

func TestModel_StoreSearchInput(t *testing.T) {
	m := loaded(t, &fakeBackend{txns: thirteen()})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})

	m, _ = update(t, m, keyRunes("/"))
	assert.Equal(t, inputStore, m.editing)

	m, _ = update(t, m, keyRunes("NORTH"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, inputNone, m.editing)
	assert.Equal(t, "NORTH", m.list.Criteria.SearchStore)
	assert.Equal(t, 1, m.list.Page)
	assert.Equal(t, 6, m.result.Page.TotalCount)
}

func TestModel_DateInputAndCancel(t *testing.T) {
	m := loaded(t, &fakeBackend{txns: thirteen()})

	m, _ = update(t, m, keyRunes("d"))
	m, _ = update(t, m, keyRunes("2024-03-01..2024-03-01"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, query.DateFilter{From: "2024-03-01", To: "2024-03-01"}, m.list.Criteria.Date)
	assert.Equal(t, 13, m.result.Page.TotalCount)

	m, _ = update(t, m, keyRunes("m"))
	m, _ = update(t, m, keyRunes("nobody"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, inputNone, m.editing)
	assert.Empty(t, m.list.Criteria.SearchManager)
}

func TestModel_QuitCancelsInFlightFetch(t *testing.T) {
	backend := &fakeBackend{txns: thirteen()}
	m := newTestModel(t, backend)
	pending := m.fetch()

	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Error(t, m.ctx.Err())

	msg := pending()
	loadedMsg, ok := msg.(transactionsLoadedMsg)
	require.True(t, ok)
	assert.True(t, errors.Is(loadedMsg.err, context.Canceled))

	m, _ = update(t, m, msg)
	assert.Equal(t, StateLoading, m.State())
	assert.Empty(t, m.View())
}

func TestModel_ExportWritesFilteredSet(t *testing.T) {
	dir := t.TempDir()
	log := &memoryLog{}
	m := loaded(t, &fakeBackend{txns: thirteen()}, WithExports(log), WithExportDir(dir))

	m, _ = update(t, m, keyRunes("/"))
	m, _ = update(t, m, keyRunes("central"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	_, cmd := update(t, m, keyRunes("e"))
	require.NotNil(t, cmd)
	done, ok := cmd().(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 7, done.rows)

	data, err := os.ReadFile(filepath.Join(dir, export.ListCSVName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Transaction ID,Store Name,Manager Name,Total Items,Date")
	assert.NotContains(t, string(data), "North")

	require.Len(t, log.records, 1)
	assert.Equal(t, model.ExportCSV, log.records[0].Format)
	assert.Equal(t, 7, log.records[0].Rows)

	m, _ = update(t, m, done)
	assert.Contains(t, m.View(), "Exported 7 transactions")
}

func TestModel_ExportSucceedsWhenHistoryFails(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	m := loaded(t, &fakeBackend{txns: thirteen()}, WithExports(failingLog{}), WithExportDir(dir))

	_, cmd := update(t, m, keyRunes("e"))
	require.NotNil(t, cmd)
	done, ok := cmd().(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, 13, done.rows)
	assert.FileExists(t, filepath.Join(dir, export.ListCSVName))

	m, _ = update(t, m, done)
	assert.False(t, m.noticeIsErr)
	assert.Contains(t, m.View(), "Exported 13 transactions")
}

func TestModel_ExportWithoutHistoryUsesExportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	m := loaded(t, &fakeBackend{txns: thirteen()}, WithExportDir(dir))

	_, cmd := update(t, m, keyRunes("e"))
	require.NotNil(t, cmd)
	done, ok := cmd().(exportDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	assert.Equal(t, filepath.Join(dir, export.ListCSVName), done.path)
}

func TestModel_ExportEmptySet(t *testing.T) {
	m := loaded(t, &fakeBackend{txns: nil})
	m, cmd := update(t, m, keyRunes("e"))
	assert.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Nothing to export")
	assert.Contains(t, m.View(), "No transactions found")
}

func TestModel_NoticeClears(t *testing.T) {
	m := loaded(t, &fakeBackend{})
	m, _ = update(t, m, keyRunes("e"))
	require.NotEmpty(t, m.notice)

	m, _ = update(t, m, clearNoticeMsg{id: m.noticeID - 1})
	assert.NotEmpty(t, m.notice)

	m, _ = update(t, m, clearNoticeMsg{id: m.noticeID})
	assert.Empty(t, m.notice)
}
