package models

// Question is one prompt in the fixed interview script.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

var questions = []Question{
	{ID: 1, Text: "Tell me about yourself."},
	{ID: 2, Text: "Tell us about your educational background and work experience."},
	{ID: 3, Text: "What are your projects and what is your contribution?"},
	{ID: 4, Text: "What are your future goals and aspirations?"},
	{ID: 5, Text: "Why do you think you're a good fit for this position?"},
	{ID: 6, Text: "What are your strengths and weaknesses?"},
}

// Questions returns a copy of the fixed interview script.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}
