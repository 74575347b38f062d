package analysis

import (
	"time"

	"sentiguard/internal/domain/analysis"
	"sentiguard/internal/domain/sentiment"
	"sentiguard/internal/services/aggregation"
	"sentiguard/internal/services/fetch"
)

// View is the render-ready snapshot of one domain. Distribution, Chart and
// item lists are derived from the controller state on every call; items with
// unrecognized sentiment are listed but not counted.
type View struct {
	Domain       string    `json:"domain"`
	Phase        string    `json:"phase"`
	Generation   uint64    `json:"generation"`
	ErrorMessage string    `json:"error_message,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`

	Distribution *sentiment.Distribution  `json:"distribution,omitempty"`
	Chart        *aggregation.ChartSeries `json:"chart,omitempty"`

	// news only
	Articles          []ArticleItem             `json:"articles,omitempty"`
	EmojiDistribution *sentiment.Distribution   `json:"emoji_distribution,omitempty"`
	Verdicts          *sentiment.VerdictSummary `json:"verdicts,omitempty"`

	// youtube/reddit only
	Comments        []CommentItem `json:"comments,omitempty"`
	ReportedMatches *bool         `json:"reported_distribution_matches,omitempty"`
}

// Loading reports whether a request is in flight
func (v View) Loading() bool {
	return v.Phase == string(fetch.PhaseLoading)
}

// ArticleItem is one article as listed in the view
type ArticleItem struct {
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	URL            string          `json:"url,omitempty"`
	Language       string          `json:"language,omitempty"`
	PublishedAt    *time.Time      `json:"published_at,omitempty"`
	RawSentiment   string          `json:"raw_sentiment"`
	Sentiment      sentiment.Label `json:"sentiment"`
	Recognized     bool            `json:"recognized"`
	TitleScore     float64         `json:"title_score"`
	EmojiSentiment sentiment.Label `json:"emoji_sentiment,omitempty"`
	Verdict        string          `json:"verdict,omitempty"`
}

// CommentItem is one comment as listed in the view
type CommentItem struct {
	Text         string          `json:"text"`
	Author       string          `json:"author,omitempty"`
	PublishedAt  *time.Time      `json:"published_at,omitempty"`
	RawSentiment string          `json:"raw_sentiment"`
	Sentiment    sentiment.Label `json:"sentiment"`
	Recognized   bool            `json:"recognized"`
}

func baseView[T fetch.Result](domain analysis.Domain, st fetch.State[T]) View {
	return View{
		Domain:       string(domain),
		Phase:        string(st.Phase),
		Generation:   st.Generation,
		ErrorMessage: st.ErrorMessage,
		UpdatedAt:    st.UpdatedAt,
	}
}

func newsView(st fetch.State[sentiment.Articles]) View {
	v := baseView(analysis.DomainNews, st)

	articles, ok := st.Result()
	if !ok {
		return v
	}

	dist := aggregation.Aggregate([]sentiment.Article(articles))
	chart := aggregation.ToChartSeries(dist)
	emoji := emojiDistribution(articles)
	verdicts := aggregation.CountVerdicts(articles)

	v.Distribution = &dist
	v.Chart = &chart
	v.EmojiDistribution = &emoji
	v.Verdicts = &verdicts

	v.Articles = make([]ArticleItem, 0, len(articles))
	for _, a := range articles {
		label := sentiment.Normalize(a.TitleSentiment)
		item := ArticleItem{
			Title:        a.Title,
			Description:  a.Description,
			URL:          a.URL,
			Language:     a.Language,
			PublishedAt:  timePtr(a.PublishedAt),
			RawSentiment: a.TitleSentiment,
			Sentiment:    label,
			Recognized:   label.Valid(),
			TitleScore:   a.TitleScore,
		}
		if a.EmojiSentiment != "" {
			item.EmojiSentiment = sentiment.Normalize(a.EmojiSentiment)
		}
		if verdict, ok := a.Verdict(); ok {
			item.Verdict = string(verdict)
		}
		v.Articles = append(v.Articles, item)
	}
	return v
}

func socialView(domain analysis.Domain, st fetch.State[sentiment.CommentAnalysis]) View {
	v := baseView(domain, st)

	result, ok := st.Result()
	if !ok {
		return v
	}

	dist := aggregation.Aggregate(result.Comments)
	chart := aggregation.ToChartSeries(dist)
	v.Distribution = &dist
	v.Chart = &chart

	if result.ReportedDistribution != nil || result.ReportedTotal > 0 {
		matches := aggregation.MatchesReported(dist, result.ReportedDistribution, result.ReportedTotal)
		v.ReportedMatches = &matches
	}

	v.Comments = make([]CommentItem, 0, len(result.Comments))
	for _, c := range result.Comments {
		label := sentiment.Normalize(c.Sentiment)
		v.Comments = append(v.Comments, CommentItem{
			Text:         c.Text,
			Author:       c.Author,
			PublishedAt:  timePtr(c.PublishedAt),
			RawSentiment: c.Sentiment,
			Sentiment:    label,
			Recognized:   label.Valid(),
		})
	}
	return v
}

func emojiDistribution(articles sentiment.Articles) sentiment.Distribution {
	return aggregation.AggregateBy([]sentiment.Article(articles), func(a sentiment.Article) string {
		return a.EmojiSentiment
	})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
