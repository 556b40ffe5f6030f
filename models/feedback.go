package models

import (
	"strconv"
	"strings"
)

// FeedbackColumns is the header row of the feedback table, in column order.
var FeedbackColumns = []string{
	"Name",
	"Email",
	"Rating",
	"Feedback",
	"Suggested Topic",
	"Attachment Name",
}

// FeedbackTopics are the topic suggestions a submitter may pick.
var FeedbackTopics = []string{
	"LLM APIs",
	"Customer Support",
	"Tool Comparisons",
	"No-code Prototyping",
}

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

// FeedbackEntry is one submitted feedback row. Only the attachment's file
// name is recorded, never its content.
type FeedbackEntry struct {
	Name           string `json:"name"`
	Email          string `json:"email,omitempty"`
	Rating         int    `json:"rating"`
	Comment        string `json:"feedback,omitempty"`
	Topic          string `json:"suggestedTopic,omitempty"`
	AttachmentName string `json:"attachmentName,omitempty"`
}

// Row returns the entry as a table row matching FeedbackColumns.
func (e FeedbackEntry) Row() []string {
	return []string{
		e.Name,
		e.Email,
		strconv.Itoa(e.Rating),
		e.Comment,
		e.Topic,
		e.AttachmentName,
	}
}

// FeedbackEntryFromRow parses a table row. Missing trailing columns are
// treated as empty, an unparsable rating becomes 0 and a rating outside
// 0..MaxRating is clamped into it.
func FeedbackEntryFromRow(row []string) FeedbackEntry {
	col := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	rating, _ := strconv.Atoi(strings.TrimSpace(col(2)))
	rating = min(max(rating, 0), MaxRating)
	return FeedbackEntry{
		Name:           col(0),
		Email:          col(1),
		Rating:         rating,
		Comment:        col(3),
		Topic:          col(4),
		AttachmentName: col(5),
	}
}

// IsFeedbackTopic reports whether t is one of FeedbackTopics.
func IsFeedbackTopic(t string) bool {
	for _, topic := range FeedbackTopics {
		if topic == t {
			return true
		}
	}
	return false
}
