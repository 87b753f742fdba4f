package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

func TestCreateInvoiceAddsTaxAndServiceCharge(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 50)

	inv, created, err := gen.CreateInvoice(ctx, b.ID, "window seat please")
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, 250.0, inv.Subtotal)
	assert.Equal(t, 25.0, inv.Tax)
	assert.Equal(t, 12.5, inv.ServiceCharge)
	assert.Equal(t, 287.5, inv.Amount)
	assert.Equal(t, domain.InvoiceIssued, inv.Status)
	assert.Equal(t, "INV-20260301-0001", inv.Number)
	assert.Equal(t, "window seat please", inv.Notes)
}

func TestCreateInvoiceIsIdempotentPerBooking(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 0)

	first, created, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := gen.CreateInvoice(ctx, b.ID, "other notes")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Number, second.Number)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Where("booking_id = ?", b.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInvoiceNumbersIncrementPerDay(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()

	b1 := seedBooking(t, db, 300, 0)
	b2 := seedBooking(t, db, 200, 0)

	inv1, _, err := gen.CreateInvoice(ctx, b1.ID, "")
	require.NoError(t, err)
	inv2, _, err := gen.CreateInvoice(ctx, b2.ID, "")
	require.NoError(t, err)

	assert.Equal(t, "INV-20260301-0001", inv1.Number)
	assert.Equal(t, "INV-20260301-0002", inv2.Number)
}

// Two concurrent creators for the same booking race on the booking_id
// unique index. The loser's transaction rolls back entirely, so its
// recovery read must run on a fresh session, where it observes the
// winner's invoice.
func TestCreateInvoiceLoserObservesWinnerAfterRollback(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 0)

	winner, created, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)
	require.True(t, created)

	// replay the losing side: its insert conflicts on booking_id and the
	// surrounding transaction is rolled back
	repo := repository.NewInvoiceRepository(db)
	err = db.Transaction(func(tx *gorm.DB) error {
		loser := domain.Invoice{
			BookingID: b.ID,
			Number:    "INV-20260301-0099",
			Subtotal:  300,
			Amount:    300,
			Status:    domain.InvoiceIssued,
		}
		return repo.WithTx(tx).Create(ctx, &loser)
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repo.GetByBookingID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)

	again, created, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.Number, again.Number)

	var count int64
	require.NoError(t, db.Model(&domain.Invoice{}).Where("booking_id = ?", b.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// A unique violation on the number index must not be mistaken for an
// existing invoice on the booking: the generator redraws the sequence
// instead of failing with a not-found.
func TestCreateInvoiceRedrawsNumberAfterCollision(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	a := seedBooking(t, db, 300, 0)
	b := seedBooking(t, db, 200, 0)

	// occupy the exact slot the first draw for b will compute: one row
	// with the day's prefix makes the next draw 0002
	taken := domain.Invoice{
		BookingID: a.ID,
		Number:    "INV-20260301-0002",
		Subtotal:  300,
		Amount:    300,
		Status:    domain.InvoiceIssued,
	}
	require.NoError(t, db.Create(&taken).Error)

	inv, created, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, b.ID, inv.BookingID)
	assert.Equal(t, "INV-20260301-0003", inv.Number)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 0)

	inv, _, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)

	inv, err = gen.MarkAsPaid(ctx, inv.ID, string(domain.PaymentMethodMock))
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, inv.Status)
	assert.NotNil(t, inv.PaidAt)

	// paid invoices can be neither re-paid nor cancelled
	_, err = gen.MarkAsPaid(ctx, inv.ID, "mock")
	assert.ErrorIs(t, err, ErrInvoiceState)
	_, err = gen.CancelInvoice(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceState)
}

func TestCancelIssuedInvoice(t *testing.T) {
	_, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 0)

	inv, _, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)

	inv, err = gen.CancelInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceCancelled, inv.Status)

	_, err = gen.MarkAsPaid(ctx, inv.ID, "mock")
	assert.ErrorIs(t, err, ErrInvoiceState)
}

func TestProcessPaymentMarksInvoicePaid(t *testing.T) {
	svc, gen, db := setupTest(t)
	ctx := context.Background()
	b := seedBooking(t, db, 300, 0)

	inv, _, err := gen.CreateInvoice(ctx, b.ID, "")
	require.NoError(t, err)

	p, err := svc.CreatePayment(ctx, b.ID, domain.PaymentMethodMock, 300)
	require.NoError(t, err)
	_, err = svc.ProcessPayment(ctx, p.ID)
	require.NoError(t, err)

	got, err := gen.GetByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, got.ID)
	assert.Equal(t, domain.InvoicePaid, got.Status)
	assert.Equal(t, string(domain.PaymentMethodMock), got.PaymentMethod)
}

func TestCreateInvoiceUnknownBooking(t *testing.T) {
	_, gen, _ := setupTest(t)

	_, _, err := gen.CreateInvoice(context.Background(), 404, "")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
