package prompt

const balancedRating = 3

var sentimentByRating = map[int]string{
	1: "Soft tone, gentle issues, polite feedback about problems. Disappointed but respectful.",
	2: "Mostly positive with mild suggestions. Some concerns but hopeful tone.",
	3: "Balanced and fair. Mix of pros and cons. Neutral perspective.",
	4: "Positive with a small suggestion for improvement. Satisfied overall.",
	5: "Warm, detailed, fully satisfied. Enthusiastic about the experience.",
}

// Sentiment returns the tone directive for a star rating.
// Ratings outside 1..5 get the balanced rating-3 profile.
func Sentiment(rating int) string {
	if s, ok := sentimentByRating[rating]; ok {
		return s
	}
	return sentimentByRating[balancedRating]
}
