package pricing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotelbooking/internal/database"
	"hotelbooking/internal/domain"
	"hotelbooking/internal/repository"
)

func setupEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pricing_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true},
	)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewEngine(repository.NewRatePlanRepository(db)), db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func flexPlan(roomTypeID int64, price float64, weekendPct *float64) domain.RatePlan {
	return domain.RatePlan{
		RoomTypeID:           roomTypeID,
		Name:                 "Flexible",
		Type:                 domain.RatePlanFlexible,
		PricePerNight:        price,
		ValidFrom:            date(2026, 1, 1),
		ValidTo:              date(2027, 1, 1),
		FreeCancelHours:      24,
		WeekendAdjustPercent: weekendPct,
	}
}

func TestResolvePlanPrefersCheapestCoveringPlan(t *testing.T) {
	engine, db := setupEngine(t)
	ctx := context.Background()

	rt := domain.RoomType{Name: "Standard", BasePrice: 100, Capacity: 2}
	require.NoError(t, db.Create(&rt).Error)

	expensive := flexPlan(rt.ID, 120, nil)
	cheap := flexPlan(rt.ID, 90, nil)
	cheap.Name = "Saver"
	require.NoError(t, db.Create(&expensive).Error)
	require.NoError(t, db.Create(&cheap).Error)

	// only valid in January, must not cover a March stay
	january := flexPlan(rt.ID, 10, nil)
	january.Name = "January Deal"
	january.ValidTo = date(2026, 2, 1)
	require.NoError(t, db.Create(&january).Error)

	plan, err := engine.ResolvePlan(ctx, &rt, date(2026, 3, 9), date(2026, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, "Saver", plan.Name)
	assert.Equal(t, 90.0, plan.PricePerNight)
}

func TestResolvePlanSynthesizesFallback(t *testing.T) {
	engine, db := setupEngine(t)
	ctx := context.Background()

	rt := domain.RoomType{Name: "Standard", BasePrice: 70, Capacity: 2}
	require.NoError(t, db.Create(&rt).Error)

	plan, err := engine.ResolvePlan(ctx, &rt, date(2026, 3, 9), date(2026, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, domain.StandardRatePlanName, plan.Name)
	assert.Equal(t, domain.RatePlanFlexible, plan.Type)
	assert.Equal(t, 70.0, plan.PricePerNight)
	assert.Equal(t, 24, plan.FreeCancelHours)
	assert.NotZero(t, plan.ID, "the fallback plan is persisted")

	// the persisted fallback is found on the next resolution
	again, err := engine.ResolvePlan(ctx, &rt, date(2026, 3, 9), date(2026, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, plan.ID, again.ID)
}

func TestNightlyPriceWeekendAdjustment(t *testing.T) {
	engine, _ := setupEngine(t)

	pct := 25.0
	plan := flexPlan(1, 100, &pct)
	rt := domain.RoomType{BasePrice: 100}

	// 2026-03-06 is a Friday, 03-07 a Saturday, 03-08 a Sunday
	assert.Equal(t, 100.0, engine.NightlyPrice(&plan, &rt, date(2026, 3, 6)))
	assert.Equal(t, 125.0, engine.NightlyPrice(&plan, &rt, date(2026, 3, 7)))
	assert.Equal(t, 125.0, engine.NightlyPrice(&plan, &rt, date(2026, 3, 8)))
}

func TestComputeTotalMixedWeek(t *testing.T) {
	engine, _ := setupEngine(t)

	pct := 20.0
	plan := flexPlan(1, 100, &pct)
	rt := domain.RoomType{BasePrice: 100}

	// Fri..Mon: Fri 100, Sat 120, Sun 120
	total := engine.ComputeTotal(&plan, &rt, date(2026, 3, 6), date(2026, 3, 9))
	assert.Equal(t, 340.0, total)
}

func TestSnapshotTotalMatchesLivePlan(t *testing.T) {
	engine, _ := setupEngine(t)

	pct := 20.0
	plan := flexPlan(1, 100, &pct)
	rt := domain.RoomType{BasePrice: 100}

	in, out := date(2026, 3, 6), date(2026, 3, 13)
	live := engine.ComputeTotal(&plan, &rt, in, out)
	snap := SnapshotTotal(domain.SnapshotOf(&plan), in, out)
	assert.Equal(t, live, snap)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.56, Round2(10.556))
	assert.Equal(t, 10.55, Round2(10.554))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 287.5, Round2(287.5000001))
}
