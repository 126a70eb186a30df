package models

import "time"

const AudioFormatMP3 = "mp3"

type Memo struct {
	ID        string        `json:"id" db:"id"`
	Text      string        `json:"text" db:"text"`
	Voice     MemoVoice     `json:"voice"`
	Audio     AudioMetadata `json:"audio"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// MemoVoice is the voice snapshot taken when the memo was created.
type MemoVoice struct {
	ID   string `json:"id" db:"voice_id"`
	Name string `json:"name" db:"voice_name"`
}

type AudioMetadata struct {
	Filename string `json:"filename" db:"filename"`
	URL      string `json:"url" db:"url"`
	Length   int    `json:"length" db:"length_bytes"`
	Format   string `json:"format" db:"format"`
}

type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

type MemoPage struct {
	Memos      []Memo     `json:"memos"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes the pagination block for a page taken from total entries.
func NewPagination(total, limit, offset int) Pagination {
	return Pagination{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset < total && limit < total-offset,
	}
}
