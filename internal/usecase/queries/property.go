package queries

import (
	"context"
	"time"

	"travelnest/internal/infra"
	"travelnest/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrPropertyNotFound = errs.New("property not found")

type PropertyView struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"host_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	ReviewCount      int32     `json:"review_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type PropertyListItem struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"host_id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	ReviewCount      int32     `json:"review_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type PropertyFilters struct {
	Location *string
}

type PropertyReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PropertyView, error)
	FindFirstPage(ctx context.Context, filters PropertyFilters, limit int32) ([]*PropertyListItem, error)
	FindKeyset(ctx context.Context, filters PropertyFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*PropertyListItem, error)
	FindByHostFirstPage(ctx context.Context, hostID uuid.UUID, limit int32) ([]*PropertyListItem, error)
	FindByHostKeyset(ctx context.Context, hostID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*PropertyListItem, error)
}

type PropertyQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*PropertyView, error)
	List(ctx context.Context, filters PropertyFilters, cursor *Cursor, limit int) ([]*PropertyListItem, *Cursor, error)
	ListByHost(ctx context.Context, hostID uuid.UUID, cursor *Cursor, limit int) ([]*PropertyListItem, *Cursor, error)
}

type propertyQueriesImpl struct {
	store PropertyReadStore
}

func NewPropertyQueries(store PropertyReadStore) PropertyQueries {
	return &propertyQueriesImpl{store: store}
}

func (q *propertyQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*PropertyView, error) {
	p, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (q *propertyQueriesImpl) List(ctx context.Context, filters PropertyFilters, cursor *Cursor, limit int) ([]*PropertyListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*PropertyListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindFirstPage(ctx, filters, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindKeyset(ctx, filters, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateProperties(rows, limit)
}

func (q *propertyQueriesImpl) ListByHost(ctx context.Context, hostID uuid.UUID, cursor *Cursor, limit int) ([]*PropertyListItem, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*PropertyListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByHostFirstPage(ctx, hostID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByHostKeyset(ctx, hostID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateProperties(rows, limit)
}

func paginateProperties(rows []*PropertyListItem, limit int) ([]*PropertyListItem, *Cursor, error) {
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
