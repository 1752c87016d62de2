package shared

import (
	"context"
	"time"

	"travelnest/internal/domain/booking"
	"travelnest/internal/domain/payment"
	"travelnest/internal/domain/property"
	"travelnest/internal/domain/review"
	"travelnest/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Properties() PropertyRepository
	Reviews() ReviewRepository
	RatingStats() RatingStatsRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	PropertyByID(ctx context.Context, id uuid.UUID) (*PropertySnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	ActivePaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentSnapshot, error)
	PaymentByTxRef(ctx context.Context, txRef string) (*PaymentSnapshot, error)
}

type BookingRepository interface {
	// Create relies on the storage-level availability constraint: the insert
	// and the overlap check are one atomic step.
	Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStay(ctx context.Context, tx db.DBTX, b *booking.Booking) error
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status booking.Status) error
}

type PaymentRepository interface {
	// Create inserts the payment unless an active one already exists for the
	// booking; returns false without error when another writer won the race.
	Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (bool, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status payment.Status) error
}

type PropertyRepository interface {
	Create(ctx context.Context, tx db.DBTX, p *property.Property) (uuid.UUID, error)
	Update(ctx context.Context, tx db.DBTX, p *property.Property) error
	Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error
}

type ReviewRepository interface {
	Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error)
}

type RatingStatsRepository interface {
	RecalcPropertyRatingStats(ctx context.Context, tx db.DBTX, propertyID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, tx db.DBTX, email, passwordHash, role, firstName, lastName string) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}
