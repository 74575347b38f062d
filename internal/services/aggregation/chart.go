package aggregation

import "sentiguard/internal/domain/sentiment"

// ChartSeries is the label/value pair a pie-chart renderer consumes
type ChartSeries struct {
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}

// ToChartSeries shapes dist into a series with a fixed Positive, Negative,
// Neutral order. An empty distribution still yields three zero values.
func ToChartSeries(dist sentiment.Distribution) ChartSeries {
	series := ChartSeries{
		Labels: make([]string, 0, len(sentiment.Labels)),
		Values: make([]int, 0, len(sentiment.Labels)),
	}

	for _, label := range sentiment.Labels {
		series.Labels = append(series.Labels, label.String())
		series.Values = append(series.Values, dist.Count(label))
	}

	return series
}

// Sum returns the total of all values
func (s ChartSeries) Sum() int {
	total := 0
	for _, v := range s.Values {
		total += v
	}
	return total
}
