package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() GenerationRequest {
	return GenerationRequest{
		BusinessName: "Sunrise Cafe",
		BusinessType: "restaurant",
		Category:     "Food & Beverage",
		StarRating:   5,
		Language:     LanguageEnglish,
	}
}

func TestNormalizeDefaults(t *testing.T) {
	req := GenerationRequest{BusinessName: "  Sunrise Cafe ", StarRating: 4}.Normalize()
	assert.Equal(t, "Sunrise Cafe", req.BusinessName)
	assert.Equal(t, LanguageEnglish, req.Language)
	assert.Equal(t, UseCaseCustomerReview, req.UseCase)

	kept := GenerationRequest{Language: LanguageHindi, UseCase: UseCaseStudentFeedback}.Normalize()
	assert.Equal(t, LanguageHindi, kept.Language)
	assert.Equal(t, UseCaseStudentFeedback, kept.UseCase)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validRequest().Normalize().Validate())

	tests := []struct {
		name   string
		mutate func(r *GenerationRequest)
		want   string
	}{
		{"missing name", func(r *GenerationRequest) { r.BusinessName = "   " }, "business name is required"},
		{"missing type", func(r *GenerationRequest) { r.BusinessType = "" }, "business type is required"},
		{"missing category", func(r *GenerationRequest) { r.Category = "" }, "category is required"},
		{"rating zero", func(r *GenerationRequest) { r.StarRating = 0 }, "star rating must be between 1 and 5"},
		{"rating six", func(r *GenerationRequest) { r.StarRating = 6 }, "star rating must be between 1 and 5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := req.Normalize().Validate()

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Fields, tt.want)
		})
	}
}

func TestSucceededCountsRunes(t *testing.T) {
	res := Succeeded("Saras chhe।", nil)
	assert.True(t, res.Success)
	assert.Equal(t, 11, res.CharCount)
	assert.Equal(t, MethodAPI, res.Method)
	assert.NotNil(t, res.TokenUsage)
}

func TestFailed(t *testing.T) {
	res := Failed(ErrTimeout, "request timed out")
	assert.False(t, res.Success)
	assert.Empty(t, res.Review)
	assert.Equal(t, ErrTimeout, res.ErrorKind)
}

func TestNewHistoryRecordUsesLegacyKeys(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	res := Succeeded("Nice coffee and kind staff.", TokenUsage{"total_tokens": 42.0})
	rec := NewHistoryRecord(validRequest().Normalize(), res, now)

	assert.Equal(t, "2026-03-01 09:30:00", rec.Timestamp)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"timestamp", "business_name", "business_type", "category", "star_rating",
		"language", "use_case", "review", "char_count", "token_usage", "method"} {
		assert.Contains(t, decoded, key)
	}
	assert.NotContains(t, decoded, "ID")
}

func TestTokenUsageTotal(t *testing.T) {
	total, ok := TokenUsage{"total_tokens": 120.0}.TotalTokens()
	assert.True(t, ok)
	assert.Equal(t, 120, total)

	_, ok = TokenUsage{}.TotalTokens()
	assert.False(t, ok)
}
