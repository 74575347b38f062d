package news

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sentiguard/internal/domain/analysis"
	"sentiguard/pkg/errors"
)

type mockSubmitter struct {
	mock.Mock
}

func (m *mockSubmitter) SubmitNews(ctx context.Context, params analysis.NewsParams) (uint64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uint64), args.Error(1)
}

func fixedClock() time.Time {
	return time.Date(2025, 6, 10, 15, 4, 5, 0, time.UTC)
}

func TestRefresher_Params(t *testing.T) {
	r := NewRefresherWithClock(nil, Config{
		Interval:     time.Minute,
		Enabled:      true,
		Category:     analysis.CategoryHealthcare,
		Language:     analysis.LanguageHindi,
		LookbackDays: 7,
	}, fixedClock)

	params := r.Params()
	assert.Equal(t, analysis.CategoryHealthcare, params.Category)
	assert.Equal(t, analysis.LanguageHindi, params.Language)
	assert.Equal(t, "2025-06-03", params.From.Format(time.DateOnly))
	assert.Equal(t, "2025-06-10", params.To.Format(time.DateOnly))
}

func TestRefresher_ZeroLookbackIsSingleDay(t *testing.T) {
	r := NewRefresherWithClock(nil, Config{Category: analysis.CategoryFinance}, fixedClock)

	params := r.Params()
	assert.Equal(t, params.From.Format(time.DateOnly), params.To.Format(time.DateOnly))
}

func TestRefresher_Run(t *testing.T) {
	cfg := Config{
		Interval:     time.Minute,
		Enabled:      true,
		Category:     analysis.CategoryFinance,
		Language:     analysis.LanguageEnglish,
		LookbackDays: 3,
	}

	t.Run("submits the trailing window", func(t *testing.T) {
		sub := &mockSubmitter{}
		r := NewRefresherWithClock(sub, cfg, fixedClock)
		sub.On("SubmitNews", mock.Anything, r.Params()).Return(uint64(4), nil).Once()

		require.NoError(t, r.Run(context.Background()))
		sub.AssertExpectations(t)
	})

	t.Run("submit error is wrapped", func(t *testing.T) {
		sub := &mockSubmitter{}
		r := NewRefresherWithClock(sub, cfg, fixedClock)
		invalid := errors.NewValidationError("category", "is not supported", "Sports")
		sub.On("SubmitNews", mock.Anything, mock.Anything).Return(uint64(0), invalid).Once()

		err := r.Run(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		assert.Contains(t, err.Error(), "submit news refresh")
	})
}

func TestRefresher_Schedule(t *testing.T) {
	r := NewRefresher(&mockSubmitter{}, Config{Interval: 30 * time.Minute, Enabled: false})

	assert.Equal(t, "news_refresher", r.Name())
	assert.Equal(t, 30*time.Minute, r.Interval())
	assert.False(t, r.Enabled())
}
