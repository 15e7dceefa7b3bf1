package tui

import "github.com/Veraticus/vendor-dash/internal/model"

// transactionsLoadedMsg carries the result of one fetch. gen identifies the
// fetch so superseded responses can be dropped.
type transactionsLoadedMsg struct {
	err          error
	transactions []model.Transaction
	gen          int
}

type exportDoneMsg struct {
	err  error
	path string
	rows int
}

// clearNoticeMsg hides the notice with the given id if it is still showing.
type clearNoticeMsg struct {
	id int
}
