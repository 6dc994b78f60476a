package evaluate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

var csvHeader = []string{
	"userId",
	"isAnonymous",
	"productId",
	"predictionCount",
	"purchasedCount",
	"matchedRelevant",
	"precisionAt5",
	"recallAt5",
	"ndcgAt5",
	"mapAt5",
	"f1ScoreAt5",
	"createdAt",
}

// WriteCSV writes one row per evaluated event. The skipped count is not part
// of the table; it lives in Report.Skipped and the batch logs.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			row.UserID,
			strconv.FormatBool(row.IsAnonymous),
			row.ProductID,
			strconv.Itoa(row.PredictionCount),
			strconv.Itoa(row.PurchasedCount),
			strconv.Itoa(row.MatchedRelevant),
			formatMetric(row.PrecisionAt5),
			formatMetric(row.RecallAt5),
			formatMetric(row.NDCGAt5),
			formatMetric(row.MAPAt5),
			formatMetric(row.F1ScoreAt5),
			row.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
