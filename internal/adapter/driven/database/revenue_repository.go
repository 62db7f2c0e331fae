package database

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/diillson/revenue-forecast-go/internal/domain/entity"
	"github.com/diillson/revenue-forecast-go/pkg/logger"
)

const postgresRevenueQuery = `
SELECT TO_CHAR(DATE_TRUNC('month', o.ordered_at), 'YYYY-MM-DD') AS ds,
       SUM(oi.price_at_purchase) AS y
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.item_type = ?
  AND o.ordered_at IS NOT NULL
GROUP BY DATE_TRUNC('month', o.ordered_at)
HAVING SUM(oi.price_at_purchase) > 0
ORDER BY ds`

const sqliteRevenueQuery = `
SELECT strftime('%Y-%m-01', o.ordered_at) AS ds,
       SUM(oi.price_at_purchase) AS y
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.item_type = ?
  AND o.ordered_at IS NOT NULL
GROUP BY strftime('%Y-%m-01', o.ordered_at)
HAVING SUM(oi.price_at_purchase) > 0
ORDER BY ds`

type revenueRow struct {
	Period  string          `gorm:"column:ds"`
	Revenue decimal.Decimal `gorm:"column:y"`
}

// RevenueRepository reads monthly revenue with a fresh connection per call.
type RevenueRepository struct {
	opts     Options
	itemType string
	log      *logger.Logger
}

// NewRevenueRepository creates a repository summing items of itemType.
func NewRevenueRepository(opts Options, itemType string, log *logger.Logger) *RevenueRepository {
	if log == nil {
		log = logger.Nop()
	}
	return &RevenueRepository{opts: opts, itemType: itemType, log: log}
}

// FetchMonthlyRevenue implements repository.RevenueRepository.
func (r *RevenueRepository) FetchMonthlyRevenue(ctx context.Context) (rows []entity.MonthlyRevenue, err error) {
	defer func() {
		if err != nil {
			r.log.Error(r.log.WithFields(ctx, errorFields(err)), "revenue query failed", err)
		}
	}()

	client, err := New(ctx, r.opts, r.log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			err = multierr.Append(err, wrapError("close", cerr))
			rows = nil
		}
	}()

	return queryMonthlyRevenue(ctx, client, r.itemType)
}

func queryMonthlyRevenue(ctx context.Context, client *Client, itemType string) ([]entity.MonthlyRevenue, error) {
	query := postgresRevenueQuery
	if client.Dialect() == DriverSQLite {
		query = sqliteRevenueQuery
	}

	var scanned []revenueRow
	if err := client.Raw(ctx, query, itemType).Scan(&scanned).Error; err != nil {
		return nil, wrapError("query", err)
	}

	rows := make([]entity.MonthlyRevenue, 0, len(scanned))
	for _, s := range scanned {
		period, err := time.Parse(entity.PeriodLayout, s.Period)
		if err != nil {
			return nil, wrapError("scan", fmt.Errorf("parsing period %q: %w", s.Period, err))
		}
		rows = append(rows, entity.MonthlyRevenue{
			Period:  period,
			Revenue: s.Revenue.InexactFloat64(),
		})
	}
	return rows, nil
}
