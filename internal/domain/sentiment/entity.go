package sentiment

import (
	"encoding/json"
	"strings"
	"time"
)

// Item is anything carrying a primary sentiment label (article or comment)
type Item interface {
	PrimarySentiment() string
}

// Article is a news article analyzed by the service.
// Raw labels are kept as received; normalization happens on read.
type Article struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	Language        string    `json:"language"`
	TitleSentiment  string    `json:"title_sentiment"`
	TitleScore      float64   `json:"title_score"`
	EmojiSentiment  string    `json:"emoji_sentiment"`
	FakeNewsVerdict string    `json:"fake_news"`
	PublishedAt     time.Time `json:"published_at"`
}

// PrimarySentiment implements Item
func (a Article) PrimarySentiment() string {
	return a.TitleSentiment
}

// Verdict returns the normalized fake-news verdict, if recognized
func (a Article) Verdict() (Verdict, bool) {
	return NormalizeVerdict(a.FakeNewsVerdict)
}

type articleWire struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	URL             string  `json:"url"`
	Language        string  `json:"language"`
	TitleSentiment  string  `json:"title_sentiment"`
	TitleScore      float64 `json:"title_score"`
	EmojiSentiment  string  `json:"emoji_sentiment"`
	FakeNewsVerdict string  `json:"fake_news"`
	PublishedAt     string  `json:"published_at"`
}

// UnmarshalJSON accepts the service's free-form published_at values
func (a *Article) UnmarshalJSON(data []byte) error {
	var w articleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*a = Article{
		Title:           w.Title,
		Description:     w.Description,
		URL:             w.URL,
		Language:        w.Language,
		TitleSentiment:  w.TitleSentiment,
		TitleScore:      w.TitleScore,
		EmojiSentiment:  w.EmojiSentiment,
		FakeNewsVerdict: w.FakeNewsVerdict,
		PublishedAt:     ParseTimestamp(w.PublishedAt),
	}
	return nil
}

// Articles is the result of a news analysis
type Articles []Article

// Len reports the number of articles
func (a Articles) Len() int {
	return len(a)
}

// Comment is a YouTube or Reddit comment analyzed by the service
type Comment struct {
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	Sentiment   string    `json:"sentiment"`
	PublishedAt time.Time `json:"publishedAt"`
}

// PrimarySentiment implements Item
func (c Comment) PrimarySentiment() string {
	return c.Sentiment
}

type commentWire struct {
	Text        string `json:"text"`
	Author      string `json:"author"`
	Sentiment   string `json:"sentiment"`
	PublishedAt string `json:"publishedAt"`
}

// UnmarshalJSON accepts the service's free-form publishedAt values
func (c *Comment) UnmarshalJSON(data []byte) error {
	var w commentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Comment{
		Text:        w.Text,
		Author:      w.Author,
		Sentiment:   w.Sentiment,
		PublishedAt: ParseTimestamp(w.PublishedAt),
	}
	return nil
}

// CommentAnalysis is the result of a YouTube or Reddit analysis.
// ReportedDistribution and ReportedTotal are what the service claims; views
// always recompute the distribution from Comments.
type CommentAnalysis struct {
	Comments             []Comment      `json:"comments"`
	ReportedDistribution map[string]int `json:"sentimentDistribution"`
	ReportedTotal        int            `json:"totalComments"`
}

// Len reports the number of comments
func (c CommentAnalysis) Len() int {
	return len(c.Comments)
}

// Distribution counts items per canonical label.
// Positive+Negative+Neutral == Total; Unrecognized items are not in Total.
type Distribution struct {
	Positive     int `json:"positive"`
	Negative     int `json:"negative"`
	Neutral      int `json:"neutral"`
	Total        int `json:"total"`
	Unrecognized int `json:"unrecognized"`
}

// Count returns the bucket for label, zero for non-canonical labels
func (d Distribution) Count(label Label) int {
	switch label {
	case Positive:
		return d.Positive
	case Negative:
		return d.Negative
	case Neutral:
		return d.Neutral
	}
	return 0
}

// VerdictSummary counts fake-news verdicts across articles
type VerdictSummary struct {
	Real    int `json:"real"`
	Fake    int `json:"fake"`
	Unknown int `json:"unknown"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats the analysis service emits
// (NewsAPI RFC 3339, RSS RFC 1123, bare dates). Unparseable input yields the
// zero time.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}
