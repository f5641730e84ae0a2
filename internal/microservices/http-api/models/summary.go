package models

// LibrarianSummary is the librarian panel overview. Not a table.
type LibrarianSummary struct {
	PendingRequests int64 `json:"pending_requests"`
	PendingFines    int64 `json:"pending_fines"`
	OverdueLoans    int64 `json:"overdue_loans"`
	Books           int64 `json:"books"`
	AvailableCopies int64 `json:"available_copies"`
}

// ReaderSummary is the reader panel overview. Not a table.
type ReaderSummary struct {
	ActiveLoans      int64   `json:"active_loans"`
	OverdueLoans     int64   `json:"overdue_loans"`
	PendingRequests  int64   `json:"pending_requests"`
	PendingFines     int64   `json:"pending_fines"`
	PendingFineTotal float64 `json:"pending_fine_total"`
}
