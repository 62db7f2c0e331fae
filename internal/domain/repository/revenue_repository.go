package repository

import (
	"context"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
)

// RevenueRepository reads monthly revenue aggregates.
type RevenueRepository interface {
	// FetchMonthlyRevenue opens a connection, runs the aggregation query and
	// closes the connection again. Rows are ordered by period ascending and
	// only months with a positive total are returned. Failures are reported
	// as *types.DatabaseError.
	FetchMonthlyRevenue(ctx context.Context) ([]entity.MonthlyRevenue, error)
}
