package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Supported review languages
const (
	LanguageEnglish  = "English"
	LanguageGujarati = "Gujarati Romanized"
	LanguageHindi    = "Hindi Romanized"
)

// Supported use cases
const (
	UseCaseCustomerReview    = "Customer review"
	UseCaseStudentFeedback   = "Student feedback"
	UseCasePatientExperience = "Patient experience"
)

// MethodAPI tags results produced by the completion API
const MethodAPI = "api"

// TimestampLayout is the history timestamp format
const TimestampLayout = "2006-01-02 15:04:05"

// GenerationRequest describes the review to generate
type GenerationRequest struct {
	BusinessName string `json:"business_name" form:"business_name" validate:"required"`
	BusinessType string `json:"business_type" form:"business_type" validate:"required"`
	Category     string `json:"category" form:"category" validate:"required"`
	StarRating   int    `json:"star_rating" form:"star_rating" validate:"min=1,max=5"`
	Language     string `json:"language" form:"language"`
	UseCase      string `json:"use_case" form:"use_case"`
}

// Normalize trims the text fields and fills in the default language and use case
func (r GenerationRequest) Normalize() GenerationRequest {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.BusinessType = strings.TrimSpace(r.BusinessType)
	r.Category = strings.TrimSpace(r.Category)
	r.Language = strings.TrimSpace(r.Language)
	r.UseCase = strings.TrimSpace(r.UseCase)
	if r.Language == "" {
		r.Language = LanguageEnglish
	}
	if r.UseCase == "" {
		r.UseCase = UseCaseCustomerReview
	}
	return r
}

// TokenUsage is the provider-reported usage block, passed through verbatim
type TokenUsage map[string]any

// TotalTokens returns total_tokens when the provider reported it
func (u TokenUsage) TotalTokens() (int, bool) {
	return u.Int("total_tokens")
}

// Int reads a numeric usage field regardless of how it was decoded
func (u TokenUsage) Int(key string) (int, bool) {
	switch v := u[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	}
	return 0, false
}

// HistoryRecord is one persisted generation
type HistoryRecord struct {
	ID           uint       `gorm:"primarykey" json:"-"`
	Timestamp    string     `gorm:"not null" json:"timestamp"`
	BusinessName string     `gorm:"not null" json:"business_name"`
	BusinessType string     `json:"business_type"`
	Category     string     `json:"category"`
	StarRating   int        `json:"star_rating"`
	Language     string     `json:"language"`
	UseCase      string     `json:"use_case"`
	Review       string     `gorm:"type:text" json:"review"`
	CharCount    int        `json:"char_count"`
	TokenUsage   TokenUsage `gorm:"serializer:json" json:"token_usage"`
	Method       string     `json:"method"`
}

// TableName pins the gorm table name
func (HistoryRecord) TableName() string {
	return "review_history"
}

// NewHistoryRecord builds the record persisted after a successful generation
func NewHistoryRecord(req GenerationRequest, result GenerationResult, now time.Time) HistoryRecord {
	usage := result.TokenUsage
	if usage == nil {
		usage = TokenUsage{}
	}
	return HistoryRecord{
		Timestamp:    now.Format(TimestampLayout),
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		Category:     req.Category,
		StarRating:   req.StarRating,
		Language:     req.Language,
		UseCase:      req.UseCase,
		Review:       result.Review,
		CharCount:    result.CharCount,
		TokenUsage:   usage,
		Method:       result.Method,
	}
}

// GenerationResult is the only value the pipeline returns to callers
type GenerationResult struct {
	Success    bool       `json:"success"`
	Review     string     `json:"review,omitempty"`
	CharCount  int        `json:"char_count,omitempty"`
	TokenUsage TokenUsage `json:"token_usage,omitempty"`
	Method     string     `json:"method,omitempty"`
	ErrorKind  ErrorKind  `json:"error_kind,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// Succeeded builds a success result; the character count is measured in runes
func Succeeded(review string, usage TokenUsage) GenerationResult {
	if usage == nil {
		usage = TokenUsage{}
	}
	return GenerationResult{
		Success:    true,
		Review:     review,
		CharCount:  utf8.RuneCountInString(review),
		TokenUsage: usage,
		Method:     MethodAPI,
	}
}

// Failed builds a failure result
func Failed(kind ErrorKind, message string) GenerationResult {
	return GenerationResult{
		ErrorKind: kind,
		Error:     message,
	}
}
