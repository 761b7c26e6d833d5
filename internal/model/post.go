package model

import "time"

type Post struct {
	ID       uint64 `gorm:"primaryKey;index:idx_author_time,priority:3,sort:desc" json:"id"`
	AuthorID uint64 `gorm:"not null;index:idx_author_time,priority:1" json:"author_id"`
	Title    string `gorm:"size:250;not null" json:"title"`
	Subtitle string `gorm:"size:250" json:"subtitle"`
	// Body 可能是富文本编辑器产出的 HTML，这里当作不透明文本存储
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index:idx_author_time,priority:2,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) SearchKind() string { return "post" }

func (p *Post) SearchRef() uint64 { return p.ID }

func (p *Post) SearchFields() map[string]string {
	return map[string]string{
		"title":    p.Title,
		"subtitle": p.Subtitle,
		"body":     p.Body,
	}
}
