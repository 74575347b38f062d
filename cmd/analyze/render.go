package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"sentiguard/internal/domain/sentiment"
	analysisservice "sentiguard/internal/services/analysis"
)

const textWidth = 72

// render prints a terminal report of v. limit caps listed items (0 = all).
func render(w io.Writer, v analysisservice.View, limit int, now time.Time) {
	fmt.Fprintf(w, "%s: %s (generation %d)\n", v.Domain, v.Phase, v.Generation)
	if v.Loading() {
		fmt.Fprintln(w, "Analysis still running")
		return
	}
	if v.ErrorMessage != "" {
		return
	}

	switch {
	case v.Articles != nil:
		renderArticles(w, v.Articles, limit, now)
	case v.Comments != nil:
		renderComments(w, v.Comments, limit, now)
	}

	if v.Distribution != nil {
		renderDistribution(w, "Sentiment", *v.Distribution)
	}
	if v.EmojiDistribution != nil {
		renderDistribution(w, "Emoji sentiment", *v.EmojiDistribution)
	}
	if v.Verdicts != nil {
		fmt.Fprintf(w, "\nVerdicts: %s real, %s fake, %s unknown\n",
			humanize.Comma(int64(v.Verdicts.Real)),
			humanize.Comma(int64(v.Verdicts.Fake)),
			humanize.Comma(int64(v.Verdicts.Unknown)),
		)
	}
	if v.ReportedMatches != nil && !*v.ReportedMatches {
		fmt.Fprintln(w, "\nNote: service-reported distribution differs from recounted labels")
	}
	if v.Chart != nil {
		fmt.Fprintf(w, "\nChart: %s = %v (total %d)\n", strings.Join(v.Chart.Labels, "/"), v.Chart.Values, v.Chart.Sum())
	}
}

func renderArticles(w io.Writer, items []analysisservice.ArticleItem, limit int, now time.Time) {
	fmt.Fprintf(w, "\n%s articles\n", humanize.Comma(int64(len(items))))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SENTIMENT\tVERDICT\tPUBLISHED\tTITLE")
	for i, item := range items {
		if limit > 0 && i >= limit {
			fmt.Fprintf(tw, "...\t\t\t%s more\n", humanize.Comma(int64(len(items)-limit)))
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			labelCell(item.Sentiment, item.Recognized),
			orDash(item.Verdict),
			relative(item.PublishedAt, now),
			truncate(item.Title),
		)
	}
	_ = tw.Flush()
}

func renderComments(w io.Writer, items []analysisservice.CommentItem, limit int, now time.Time) {
	fmt.Fprintf(w, "\n%s comments\n", humanize.Comma(int64(len(items))))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SENTIMENT\tAUTHOR\tPUBLISHED\tTEXT")
	for i, item := range items {
		if limit > 0 && i >= limit {
			fmt.Fprintf(tw, "...\t\t\t%s more\n", humanize.Comma(int64(len(items)-limit)))
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			labelCell(item.Sentiment, item.Recognized),
			orDash(item.Author),
			relative(item.PublishedAt, now),
			truncate(item.Text),
		)
	}
	_ = tw.Flush()
}

func renderDistribution(w io.Writer, title string, d sentiment.Distribution) {
	fmt.Fprintf(w, "\n%s (%s counted", title, humanize.Comma(int64(d.Total)))
	if d.Unrecognized > 0 {
		fmt.Fprintf(w, ", %s unrecognized", humanize.Comma(int64(d.Unrecognized)))
	}
	fmt.Fprintln(w, ")")

	for _, label := range sentiment.Labels {
		n := d.Count(label)
		fmt.Fprintf(w, "  %-9s %6s  %5.1f%%\n", label, humanize.Comma(int64(n)), percent(n, d.Total))
	}
}

func labelCell(label sentiment.Label, recognized bool) string {
	if !recognized {
		return fmt.Sprintf("?%s", label)
	}
	return label.String()
}

func relative(t *time.Time, now time.Time) string {
	if t == nil {
		return "-"
	}
	return humanize.RelTime(*t, now, "ago", "from now")
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= textWidth {
		return s
	}
	return string(r[:textWidth-1]) + "…"
}
