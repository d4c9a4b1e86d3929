package primary

import "context"

// BoardColumn is one column of the workflow board, ordered by position.
type BoardColumn struct {
	Name     string
	Requests []*Request
}

// RepositionRequest moves a request to an index within a target column.
// If the target column differs from the request's current column, the column
// change goes through the same guarded transition path first.
type RepositionRequest struct {
	RequestID    string
	TargetColumn string
	TargetIndex  int
}

// BoardService is the primary port for the workflow state machine.
type BoardService interface {
	// ProposeTransition moves a request to a new column. On acceptance the
	// history gains exactly one record, the status is re-derived, and the
	// snapshot refresh pipeline fires. Concurrent losers get
	// models.ErrConcurrentModification and may retry.
	ProposeTransition(ctx context.Context, requestID, newColumn string) (*Request, error)

	// Reposition reorders a request within (or into) a column, renumbering
	// the destination to a gap-free sequence. A same-column reposition never
	// touches history.
	Reposition(ctx context.Context, req RepositionRequest) (*Request, error)

	// Board returns all four columns in board order, each ordered by
	// position with ties broken by ID.
	Board(ctx context.Context) ([]BoardColumn, error)
}
