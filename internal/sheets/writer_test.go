package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

type update struct {
	rangeStr string
	values   [][]any
}

type fakeAPI struct {
	existsErr  error
	updateErrs []error
	created    []string
	added      []string
	updates    []update
	calls      int
}

func (f *fakeAPI) Exists(_ context.Context, _ string) error {
	return f.existsErr
}

func (f *fakeAPI) Create(_ context.Context, title, sheetTitle string) (string, string, error) {
	f.created = append(f.created, title+"/"+sheetTitle)
	return "new-sheet", "https://sheets/new-sheet", nil
}

func (f *fakeAPI) AddSheet(_ context.Context, _ string, sheetTitle string) error {
	f.added = append(f.added, sheetTitle)
	return nil
}

func (f *fakeAPI) Update(_ context.Context, _ string, rangeStr string, values [][]any) error {
	f.calls++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.updates = append(f.updates, update{rangeStr: rangeStr, values: values})
	return nil
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ServiceAccountPath = "/key.json"
	cfg.BatchSize = 2
	cfg.RetryDelay = time.Millisecond
	return cfg
}

func TestWriteRows_CreatesSpreadsheetAndBatches(t *testing.T) {
	api := &fakeAPI{}
	w := newWriter(api, testConfig(), nil)

	res, err := w.WriteRows(context.Background(), "store-1", []string{"Transaction ID", "Store Name"}, [][]string{
		{"t1", "Alpha"},
		{"t2", "Alpha"},
		{"t3", "Alpha"},
	})
	require.NoError(t, err)

	assert.Equal(t, "new-sheet", res.SpreadsheetID)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, []string{"Vendor Transactions/store-1"}, api.created)
	require.Len(t, api.updates, 2)
	assert.Equal(t, "'store-1'!A1", api.updates[0].rangeStr)
	assert.Equal(t, []any{"Transaction ID", "Store Name"}, api.updates[0].values[0])
	assert.Equal(t, "'store-1'!A3", api.updates[1].rangeStr)
	assert.Len(t, api.updates[1].values, 2)
}

func TestWriteRows_ExistingSpreadsheetAddsTab(t *testing.T) {
	api := &fakeAPI{}
	cfg := testConfig()
	cfg.SpreadsheetID = "existing"
	w := newWriter(api, cfg, nil)

	res, err := w.WriteRows(context.Background(), "tab", []string{"h"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "existing", res.SpreadsheetID)
	assert.Empty(t, api.created)
	assert.Equal(t, []string{"tab"}, api.added)
}

func TestWriteRows_InaccessibleSpreadsheet(t *testing.T) {
	api := &fakeAPI{existsErr: errors.New("forbidden")}
	cfg := testConfig()
	cfg.SpreadsheetID = "existing"
	w := newWriter(api, cfg, nil)

	_, err := w.WriteRows(context.Background(), "tab", []string{"h"}, nil)
	assert.ErrorContains(t, err, "unable to access spreadsheet existing")
}

func TestWriteRows_RetriesTransientFailures(t *testing.T) {
	api := &fakeAPI{updateErrs: []error{&googleapi.Error{Code: 503}}}
	w := newWriter(api, testConfig(), nil)

	_, err := w.WriteRows(context.Background(), "tab", []string{"h"}, [][]string{{"a"}})
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls)
}

func TestWriteRows_ClientErrorIsPermanent(t *testing.T) {
	api := &fakeAPI{updateErrs: []error{&googleapi.Error{Code: 400}}}
	w := newWriter(api, testConfig(), nil)

	_, err := w.WriteRows(context.Background(), "tab", []string{"h"}, [][]string{{"a"}})
	require.Error(t, err)
	assert.Equal(t, 1, api.calls)

	var gerr *googleapi.Error
	assert.ErrorAs(t, err, &gerr)
}
