package aggregation

import (
	"sentiguard/internal/domain/sentiment"
)

// Aggregate counts items per canonical label of their primary sentiment.
// Items whose label does not normalize to Positive, Negative or Neutral are
// left out of every bucket and out of Total; they only show in Unrecognized.
func Aggregate[I sentiment.Item](items []I) sentiment.Distribution {
	return AggregateBy(items, func(item I) string { return item.PrimarySentiment() })
}

// AggregateBy is Aggregate over an arbitrary label field, e.g. an article's
// emoji sentiment
func AggregateBy[I any](items []I, label func(I) string) sentiment.Distribution {
	var dist sentiment.Distribution

	for _, item := range items {
		switch sentiment.Normalize(label(item)) {
		case sentiment.Positive:
			dist.Positive++
		case sentiment.Negative:
			dist.Negative++
		case sentiment.Neutral:
			dist.Neutral++
		default:
			dist.Unrecognized++
			continue
		}
		dist.Total++
	}

	return dist
}

// CountVerdicts summarizes fake-news verdicts across articles
func CountVerdicts(articles []sentiment.Article) sentiment.VerdictSummary {
	var summary sentiment.VerdictSummary

	for _, a := range articles {
		verdict, ok := a.Verdict()
		switch {
		case !ok:
			summary.Unknown++
		case verdict == sentiment.VerdictFake:
			summary.Fake++
		default:
			summary.Real++
		}
	}

	return summary
}

// MatchesReported reports whether the service's own distribution agrees with
// dist. Keys in reported are raw labels and are normalized before comparing.
func MatchesReported(dist sentiment.Distribution, reported map[string]int, reportedTotal int) bool {
	var fromService sentiment.Distribution
	for raw, n := range reported {
		switch sentiment.Normalize(raw) {
		case sentiment.Positive:
			fromService.Positive += n
		case sentiment.Negative:
			fromService.Negative += n
		case sentiment.Neutral:
			fromService.Neutral += n
		}
	}

	return fromService.Positive == dist.Positive &&
		fromService.Negative == dist.Negative &&
		fromService.Neutral == dist.Neutral &&
		reportedTotal == dist.Total+dist.Unrecognized
}
