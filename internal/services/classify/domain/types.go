// Package domain defines the request and result types of the classify service
package domain

// ClassifyIn is one raw source comment, delimiters included. Comments are capped at
// 64Ki runes. An empty comment is valid and classifies an all-pad sequence
type ClassifyIn struct {
	Comment string `json:"comment" validate:"max=65536" example:"// TODO: remove this hack"`
}

// BatchIn is a list of 1 to 512 raw comments classified independently
type BatchIn struct {
	Comments []string `json:"comments" validate:"required,min=1,max=512,dive,max=65536"`
}

// Output is the label for one comment
type Output struct {
	Comment string    `json:"comment"`
	Label   string    `json:"label"`
	Index   int       `json:"index"`
	Scores  []float32 `json:"scores"`
	Tokens  []string  `json:"tokens"`
	// Truncated counts tokens dropped past the model's sequence length
	Truncated int `json:"truncated"`
}

// BatchOutput keeps results in input order
type BatchOutput struct {
	BatchID string   `json:"batch_id"`
	Results []Output `json:"results"`
	// Counts maps each label to the number of comments that received it
	Counts map[string]int `json:"counts"`
}
